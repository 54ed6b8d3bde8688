package graph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

const (
	targetALabel = "Graph Target A"
	targetBLabel = "Graph Target B"
)

// Builder assembles a render graph with a fluent API. Nodes execute in the
// order they are added: the first node receives no input, each later node
// receives the previous node's output, and the last node writes the final
// destination.
type Builder struct {
	nodes []Node
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Node appends a render node to the chain.
func (b *Builder) Node(n Node) *Builder {
	b.nodes = append(b.nodes, n)
	return b
}

// Build finalizes the graph, allocating the two ping-pong targets at the
// current surface size.
func (b *Builder) Build(gpu *hoplite.Context) (*Graph, error) {
	targetA, err := NewRenderTarget(gpu, targetALabel)
	if err != nil {
		return nil, fmt.Errorf("graph: create target A: %w", err)
	}
	targetB, err := NewRenderTarget(gpu, targetBLabel)
	if err != nil {
		targetA.Release()
		return nil, fmt.Errorf("graph: create target B: %w", err)
	}
	return &Graph{
		nodes:   b.nodes,
		targetA: targetA,
		targetB: targetB,
	}, nil
}

// Graph executes a chain of render nodes with ping-pong buffering.
//
// For a multi-node chain the intermediate results alternate between two
// internal render targets, with the last node writing the final destination:
//
//	node 0: nil      -> target A
//	node 1: target A -> target B
//	node 2: target B -> target A
//	node 3: target A -> destination
//
// A single-node graph renders straight to the destination with no
// intermediates touched.
type Graph struct {
	nodes   []Node
	targetA *RenderTarget
	targetB *RenderTarget
}

// WithNode appends a node to an existing graph, re-checking target sizes.
func (g *Graph) WithNode(n Node, gpu *hoplite.Context) *Graph {
	g.nodes = append(g.nodes, n)
	g.ensureTargets(gpu)
	return g
}

// NodeCount returns the number of nodes in the chain.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// CheckHotReload sweeps all nodes for shader file changes. Execute and
// ExecuteToTarget call this automatically.
func (g *Graph) CheckHotReload(gpu *hoplite.Context) {
	for _, n := range g.nodes {
		n.CheckHotReload(gpu)
	}
}

func (g *Graph) ensureTargets(gpu *hoplite.Context) {
	if err := g.targetA.EnsureSize(gpu, targetALabel); err != nil {
		panic("graph: resize target A: " + err.Error())
	}
	if err := g.targetB.EnsureSize(gpu, targetBLabel); err != nil {
		panic("graph: resize target B: " + err.Error())
	}
}

// runNodes executes the node chain into the final view. All passes record
// into ctx.Encoder; nothing is submitted here.
func (g *Graph) runNodes(ctx *RenderContext, final *wgpu.TextureView) {
	if len(g.nodes) == 1 {
		g.nodes[0].Execute(ctx, final, nil)
		return
	}

	var input *wgpu.TextureView
	last := len(g.nodes) - 1
	for i, n := range g.nodes {
		target := final
		if i != last {
			if i%2 == 0 {
				target = g.targetA.View()
			} else {
				target = g.targetB.View()
			}
		}

		n.Execute(ctx, target, input)

		if i != last {
			input = target
		}
	}
}

// Execute runs the graph for one frame and presents the result.
//
// Per frame it sweeps hot reload, re-ensures target sizes, acquires the
// surface texture, runs the node chain on a single command encoder, submits
// once, and presents. Surface acquisition failure outside the scene
// manager's render path is unrecoverable and panics.
func (g *Graph) Execute(gpu *hoplite.Context, time float32, camera *hoplite.Camera) {
	g.ExecuteWithUI(gpu, time, camera, nil)
}

// UIFunc renders an overlay into a screen-targeted render pass after the
// node chain has finished.
type UIFunc func(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder)

// ExecuteWithUI is Execute with an overlay pass on top of the final output.
// The overlay pass loads the rendered frame rather than clearing, so uiFn
// composites over it. A nil uiFn skips the overlay pass entirely.
func (g *Graph) ExecuteWithUI(gpu *hoplite.Context, time float32, camera *hoplite.Camera, uiFn UIFunc) {
	g.CheckHotReload(gpu)
	g.ensureTargets(gpu)

	frame, screenView, err := gpu.AcquireFrame()
	if err != nil {
		panic("graph: acquire surface texture: " + err.Error())
	}
	defer frame.Release()
	defer screenView.Release()

	encoder, err := gpu.Device.CreateCommandEncoder(nil)
	if err != nil {
		panic("graph: create command encoder: " + err.Error())
	}
	defer encoder.Release()

	ctx := &RenderContext{GPU: gpu, Encoder: encoder, Time: time, Camera: camera}
	g.runNodes(ctx, screenView)

	if uiFn != nil {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "UI Overlay Pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    screenView,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			}},
		})
		uiFn(gpu, pass)
		pass.End()
		pass.Release()
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		panic("graph: finish encoder: " + err.Error())
	}
	defer cmd.Release()

	gpu.Queue.Submit(cmd)
	gpu.Surface.Present()
}

// ExecuteToTarget runs the graph into an arbitrary texture view instead of
// the screen. Scene transitions use this to capture a scene's output for
// fade and crossfade compositing. Nothing is presented and no overlay pass
// runs.
func (g *Graph) ExecuteToTarget(gpu *hoplite.Context, time float32, camera *hoplite.Camera, target *wgpu.TextureView) {
	g.CheckHotReload(gpu)
	g.ensureTargets(gpu)

	encoder, err := gpu.Device.CreateCommandEncoder(nil)
	if err != nil {
		panic("graph: create command encoder: " + err.Error())
	}
	defer encoder.Release()

	ctx := &RenderContext{GPU: gpu, Encoder: encoder, Time: time, Camera: camera}
	g.runNodes(ctx, target)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		panic("graph: finish encoder: " + err.Error())
	}
	defer cmd.Release()

	gpu.Queue.Submit(cmd)
}

// RecordTo runs the node chain into the given view on an encoder owned by
// the caller. Hot reload and target sizing still run; submission is the
// caller's responsibility. The scene manager records both transition
// captures and the blend pass on one encoder this way.
func (g *Graph) RecordTo(ctx *RenderContext, target *wgpu.TextureView) {
	g.CheckHotReload(ctx.GPU)
	g.ensureTargets(ctx.GPU)
	g.runNodes(ctx, target)
}
