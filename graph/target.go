package graph

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

// RenderTarget is an off-screen texture that can be both rendered to and
// sampled from. The dual usage is what enables ping-pong chaining: one pass
// writes target A while sampling target B, the next pass reverses the roles.
//
// The graph manages two render targets internally and recreates them when
// the surface dimensions change.
type RenderTarget struct {
	// Texture is the underlying GPU texture.
	Texture *wgpu.Texture

	view   *wgpu.TextureView
	width  uint32
	height uint32
}

// NewRenderTarget creates a render target matching the current surface
// dimensions and format, usable as a render attachment and as a sampled
// texture. The label shows up in GPU debuggers.
func NewRenderTarget(gpu *hoplite.Context, label string) (*RenderTarget, error) {
	tex, err := gpu.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              gpu.Width(),
			Height:             gpu.Height(),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        gpu.Format(),
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &RenderTarget{
		Texture: tex,
		view:    view,
		width:   gpu.Width(),
		height:  gpu.Height(),
	}, nil
}

// View returns the texture view for attachment or sampling.
func (t *RenderTarget) View() *wgpu.TextureView {
	return t.view
}

// needsResize reports whether the target dimensions differ from the given
// surface dimensions.
func (t *RenderTarget) needsResize(width, height uint32) bool {
	return t.width != width || t.height != height
}

// EnsureSize recreates the target when the surface dimensions changed since
// creation. Call at the start of each execution; it is a no-op while the
// size matches.
func (t *RenderTarget) EnsureSize(gpu *hoplite.Context, label string) error {
	if !t.needsResize(gpu.Width(), gpu.Height()) {
		return nil
	}
	fresh, err := NewRenderTarget(gpu, label)
	if err != nil {
		return err
	}
	t.Release()
	*t = *fresh
	return nil
}

// Release frees the target's GPU resources.
func (t *RenderTarget) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}
