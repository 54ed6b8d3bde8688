package graph

import (
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/fsnotify/fsnotify"

	"github.com/xandwr/hoplite"
)

// HotShader tracks a WGSL file on disk and reloads its source when the file
// changes. Higher-level types like HotEffectPass build on it to recompile
// pipelines live.
//
// Change detection uses an fsnotify watcher on the file's directory (editors
// replace files by rename, so watching the file itself misses saves), with a
// modification-time check as fallback when the watcher cannot be created.
// Events only mark a dirty flag; the reload itself happens on the frame
// thread inside CheckReload.
type HotShader struct {
	path         string
	source       string
	lastModified time.Time

	watcher *fsnotify.Watcher
	dirty   atomic.Bool
}

// NewHotShader loads the shader source from path and starts watching it.
// Failure to create the filesystem watcher is not an error; the shader falls
// back to modification-time polling.
func NewHotShader(path string) (*HotShader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	h := &HotShader{
		path:         path,
		source:       string(source),
		lastModified: info.ModTime(),
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		err = watcher.Add(filepath.Dir(path))
	}
	if err != nil {
		log.Printf("[hot-reload] watcher unavailable for %s, falling back to mtime polling: %v", path, err)
		return h, nil
	}

	h.watcher = watcher
	go h.watch()
	return h, nil
}

func (h *HotShader) watch() {
	target := filepath.Clean(h.path)
	for {
		select {
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				h.dirty.Store(true)
			}
		case _, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// CheckReload reports whether the file's contents changed since the last
// call, reading the new source if so. Call once per frame.
func (h *HotShader) CheckReload() bool {
	changed := h.dirty.Swap(false)

	if !changed {
		info, err := os.Stat(h.path)
		if err != nil {
			return false
		}
		if !info.ModTime().After(h.lastModified) {
			return false
		}
	}

	source, err := os.ReadFile(h.path)
	if err != nil {
		return false
	}
	info, err := os.Stat(h.path)
	if err != nil {
		return false
	}

	h.lastModified = info.ModTime()
	if string(source) == h.source {
		return false
	}
	h.source = string(source)
	return true
}

// Source returns the current shader source.
func (h *HotShader) Source() string {
	return h.source
}

// Path returns the watched file path.
func (h *HotShader) Path() string {
	return h.path
}

// Close stops the filesystem watcher.
func (h *HotShader) Close() error {
	if h.watcher == nil {
		return nil
	}
	return h.watcher.Close()
}

// HotEffectPass is an EffectPass whose shader recompiles when its file
// changes on disk. A failed recompile logs the error and keeps the last
// working pipeline rendering, so a broken save never blanks the screen.
type HotEffectPass struct {
	shader *HotShader
	pass   *EffectPass
	world  bool
}

// NewHotEffectPass creates a screen-space hot-reloadable effect from a
// shader file. The returned error covers file access only; an initial
// compile failure is logged and the pass renders nothing until a good save.
func NewHotEffectPass(gpu *hoplite.Context, path string) (*HotEffectPass, error) {
	return newHotEffectPass(gpu, path, false)
}

// NewHotWorldEffectPass creates a world-space hot-reloadable effect from a
// shader file.
func NewHotWorldEffectPass(gpu *hoplite.Context, path string) (*HotEffectPass, error) {
	return newHotEffectPass(gpu, path, true)
}

func newHotEffectPass(gpu *hoplite.Context, path string, world bool) (*HotEffectPass, error) {
	shader, err := NewHotShader(path)
	if err != nil {
		return nil, err
	}
	h := &HotEffectPass{shader: shader, world: world}
	h.pass = h.compile(gpu)
	return h, nil
}

func (h *HotEffectPass) compile(gpu *hoplite.Context) *EffectPass {
	pass, err := newEffectPass(gpu, h.shader.Source(), h.world)
	if err != nil {
		log.Printf("[hot-reload] %s: %v", h.shader.Path(), err)
		return nil
	}
	return pass
}

// CheckReload recompiles the pipeline when the shader file changed. On
// compile failure the previous working pipeline is kept.
func (h *HotEffectPass) CheckReload(gpu *hoplite.Context) {
	if !h.shader.CheckReload() {
		return
	}
	log.Printf("[hot-reload] reloading shader: %s", h.shader.Path())
	if fresh := h.compile(gpu); fresh != nil {
		if h.pass != nil {
			h.pass.Release()
		}
		h.pass = fresh
		log.Printf("[hot-reload] shader compiled: %s", h.shader.Path())
	} else {
		log.Printf("[hot-reload] compile failed, keeping previous version: %s", h.shader.Path())
	}
}

// UsesCamera reports whether the pass needs camera data.
func (h *HotEffectPass) UsesCamera() bool {
	return h.world
}

// IsValid reports whether a working pipeline is loaded.
func (h *HotEffectPass) IsValid() bool {
	return h.pass != nil
}

// Render draws the screen-space effect, or nothing while no valid pipeline
// is loaded.
func (h *HotEffectPass) Render(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32) {
	if h.pass != nil {
		h.pass.Render(gpu, pass, time)
	}
}

// RenderWithCamera draws the world-space effect, or nothing while no valid
// pipeline is loaded.
func (h *HotEffectPass) RenderWithCamera(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, camera *hoplite.Camera) {
	if h.pass != nil {
		h.pass.RenderWithCamera(gpu, pass, time, camera)
	}
}

// HotPostProcessPass is a PostProcessPass with hot reload, sharing the
// keep-last-good behavior of HotEffectPass.
type HotPostProcessPass struct {
	shader *HotShader
	pass   *PostProcessPass
}

// NewHotPostProcessPass creates a hot-reloadable post-process pass from a
// shader file.
func NewHotPostProcessPass(gpu *hoplite.Context, path string) (*HotPostProcessPass, error) {
	shader, err := NewHotShader(path)
	if err != nil {
		return nil, err
	}
	h := &HotPostProcessPass{shader: shader}
	h.pass = h.compile(gpu)
	return h, nil
}

func (h *HotPostProcessPass) compile(gpu *hoplite.Context) *PostProcessPass {
	pass, err := newPostProcessPass(gpu, h.shader.Source(), false)
	if err != nil {
		log.Printf("[hot-reload] %s: %v", h.shader.Path(), err)
		return nil
	}
	return pass
}

// CheckReload recompiles when the shader file changed, keeping the previous
// pipeline on failure.
func (h *HotPostProcessPass) CheckReload(gpu *hoplite.Context) {
	if !h.shader.CheckReload() {
		return
	}
	log.Printf("[hot-reload] reloading shader: %s", h.shader.Path())
	if fresh := h.compile(gpu); fresh != nil {
		if h.pass != nil {
			h.pass.Release()
		}
		h.pass = fresh
		log.Printf("[hot-reload] shader compiled: %s", h.shader.Path())
	} else {
		log.Printf("[hot-reload] compile failed, keeping previous version: %s", h.shader.Path())
	}
}

// IsValid reports whether a working pipeline is loaded.
func (h *HotPostProcessPass) IsValid() bool {
	return h.pass != nil
}

// Render draws the effect, or nothing while no valid pipeline is loaded.
func (h *HotPostProcessPass) Render(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, input *wgpu.TextureView) {
	if h.pass != nil {
		h.pass.Render(gpu, pass, time, input)
	}
}

// HotWorldPostProcessPass is a WorldPostProcessPass with hot reload.
type HotWorldPostProcessPass struct {
	shader *HotShader
	pass   *WorldPostProcessPass
}

// NewHotWorldPostProcessPass creates a hot-reloadable world post-process
// pass from a shader file.
func NewHotWorldPostProcessPass(gpu *hoplite.Context, path string) (*HotWorldPostProcessPass, error) {
	shader, err := NewHotShader(path)
	if err != nil {
		return nil, err
	}
	h := &HotWorldPostProcessPass{shader: shader}
	h.pass = h.compile(gpu)
	return h, nil
}

func (h *HotWorldPostProcessPass) compile(gpu *hoplite.Context) *WorldPostProcessPass {
	pass, err := NewWorldPostProcessPass(gpu, h.shader.Source())
	if err != nil {
		log.Printf("[hot-reload] %s: %v", h.shader.Path(), err)
		return nil
	}
	return pass
}

// CheckReload recompiles when the shader file changed, keeping the previous
// pipeline on failure.
func (h *HotWorldPostProcessPass) CheckReload(gpu *hoplite.Context) {
	if !h.shader.CheckReload() {
		return
	}
	log.Printf("[hot-reload] reloading shader: %s", h.shader.Path())
	if fresh := h.compile(gpu); fresh != nil {
		if h.pass != nil {
			h.pass.Release()
		}
		h.pass = fresh
		log.Printf("[hot-reload] shader compiled: %s", h.shader.Path())
	} else {
		log.Printf("[hot-reload] compile failed, keeping previous version: %s", h.shader.Path())
	}
}

// IsValid reports whether a working pipeline is loaded.
func (h *HotWorldPostProcessPass) IsValid() bool {
	return h.pass != nil
}

// RenderWithCamera draws the effect, or nothing while no valid pipeline is
// loaded.
func (h *HotWorldPostProcessPass) RenderWithCamera(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, camera *hoplite.Camera, input *wgpu.TextureView) {
	if h.pass != nil {
		h.pass.RenderWithCamera(gpu, pass, time, camera, input)
	}
}

// HotEffectNode wraps a HotEffectPass as a graph node, recompiling the
// shader through the graph's hot-reload sweep.
type HotEffectNode struct {
	Effect   *HotEffectPass
	clear    hoplite.Color
	hasClear bool
}

// NewHotEffectNode creates a node that clears the target to black before
// drawing the effect.
func NewHotEffectNode(effect *HotEffectPass) *HotEffectNode {
	return &HotEffectNode{Effect: effect, clear: hoplite.Black, hasClear: true}
}

// WithClear sets the clear color.
func (n *HotEffectNode) WithClear(c hoplite.Color) *HotEffectNode {
	n.clear = c
	n.hasClear = true
	return n
}

// NoClear preserves existing target contents instead of clearing.
func (n *HotEffectNode) NoClear() *HotEffectNode {
	n.hasClear = false
	return n
}

// CheckHotReload recompiles the effect when its shader file changed.
func (n *HotEffectNode) CheckHotReload(gpu *hoplite.Context) {
	n.Effect.CheckReload(gpu)
}

// Execute renders the effect, ignoring any input texture.
func (n *HotEffectNode) Execute(ctx *RenderContext, target *wgpu.TextureView, _ *wgpu.TextureView) {
	pass := beginColorPass(ctx.Encoder, target, n.clear, n.hasClear)
	defer endPass(pass)

	if n.Effect.UsesCamera() {
		n.Effect.RenderWithCamera(ctx.GPU, pass, ctx.Time, ctx.Camera)
	} else {
		n.Effect.Render(ctx.GPU, pass, ctx.Time)
	}
}

// HotPostProcessNode wraps a HotPostProcessPass as a graph node. Like
// PostProcessNode it panics when placed first in the chain.
type HotPostProcessNode struct {
	Pass *HotPostProcessPass
}

// NewHotPostProcessNode creates a node around a hot post-process pass.
func NewHotPostProcessNode(pass *HotPostProcessPass) *HotPostProcessNode {
	return &HotPostProcessNode{Pass: pass}
}

// CheckHotReload recompiles the pass when its shader file changed.
func (n *HotPostProcessNode) CheckHotReload(gpu *hoplite.Context) {
	n.Pass.CheckReload(gpu)
}

// Execute samples the previous node's output and draws the effect over the
// target.
func (n *HotPostProcessNode) Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView) {
	if input == nil {
		panic("graph: post-process node placed first in chain; it needs a previous pass to sample")
	}

	pass := beginColorPass(ctx.Encoder, target, hoplite.Black, true)
	defer endPass(pass)

	n.Pass.Render(ctx.GPU, pass, ctx.Time, input)
}

// HotWorldPostProcessNode wraps a HotWorldPostProcessPass as a graph node.
type HotWorldPostProcessNode struct {
	Pass *HotWorldPostProcessPass
}

// NewHotWorldPostProcessNode creates a node around a hot world-space
// post-process pass.
func NewHotWorldPostProcessNode(pass *HotWorldPostProcessPass) *HotWorldPostProcessNode {
	return &HotWorldPostProcessNode{Pass: pass}
}

// CheckHotReload recompiles the pass when its shader file changed.
func (n *HotWorldPostProcessNode) CheckHotReload(gpu *hoplite.Context) {
	n.Pass.CheckReload(gpu)
}

// Execute samples the previous node's output and draws the effect with
// camera data bound.
func (n *HotWorldPostProcessNode) Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView) {
	if input == nil {
		panic("graph: post-process node placed first in chain; it needs a previous pass to sample")
	}

	pass := beginColorPass(ctx.Encoder, target, hoplite.Black, true)
	defer endPass(pass)

	n.Pass.RenderWithCamera(ctx.GPU, pass, ctx.Time, ctx.Camera, input)
}
