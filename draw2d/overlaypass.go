package draw2d

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/graph"
)

const overlayShaderSource = `
@group(0) @binding(0) var overlay_texture: texture_2d<f32>;
@group(0) @binding(1) var overlay_sampler: sampler;

struct VertexOutput {
    @builtin(position) position: vec4f,
    @location(0) uv: vec2f,
}

@vertex
fn vs(@builtin(vertex_index) vi: u32) -> VertexOutput {
    var out: VertexOutput;
    let uv = vec2f(f32((vi << 1u) & 2u), f32(vi & 2u));
    out.position = vec4f(uv * 2.0 - 1.0, 0.0, 1.0);
    out.uv = vec2f(uv.x, 1.0 - uv.y);
    return out;
}

@fragment
fn fs(in: VertexOutput) -> @location(0) vec4f {
    let c = textureSample(overlay_texture, overlay_sampler, in.uv);
    return vec4f(c.rgb * c.a, c.a);
}
`

// The shader outputs premultiplied alpha, so color and alpha blend the same
// way.
var blendPremultiplied = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// OverlayPass uploads an Overlay's pixels to a texture and composites them
// over the frame. Use it from the UI callback of Graph.ExecuteWithUI or
// Manager.Render, where the active render pass loads the rendered frame.
type OverlayPass struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.BindGroupLayout
	texture  *graph.Texture
}

// NewOverlayPass creates the compositing pipeline. The overlay texture is
// allocated on first draw and follows the overlay's size.
func NewOverlayPass(gpu *hoplite.Context) (*OverlayPass, error) {
	device := gpu.Device
	p := &OverlayPass{}

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Overlay Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: overlayShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("draw2d: compile overlay shader: %w", err)
	}
	defer shader.Release()

	p.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Overlay Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("draw2d: create overlay layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Overlay Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.layout},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("draw2d: create overlay pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	p.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Overlay Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs",
			Targets: []wgpu.ColorTargetState{{
				Format:    gpu.Format(),
				Blend:     &blendPremultiplied,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("draw2d: create overlay pipeline: %w", err)
	}

	return p, nil
}

// Draw uploads the overlay pixels and composites them into the active
// pass. The GPU texture is recreated when the overlay size changed, so
// callers can Resize the overlay on window resize and keep drawing.
func (p *OverlayPass) Draw(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, overlay *Overlay) {
	w := uint32(overlay.Width())
	h := uint32(overlay.Height())

	if p.texture != nil && (p.texture.Width() != w || p.texture.Height() != h) {
		p.texture.Release()
		p.texture = nil
	}
	if p.texture == nil {
		tex, err := graph.NewTexture(gpu, overlay.Data(), w, h, "Overlay Texture")
		if err != nil {
			panic(fmt.Sprintf("draw2d: create overlay texture: %v", err))
		}
		p.texture = tex
	} else {
		p.texture.Update(gpu, overlay.Data())
	}

	bindGroup, err := gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Overlay Bind Group",
		Layout: p.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.texture.View},
			{Binding: 1, Sampler: p.texture.Sampler},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("draw2d: create overlay bind group: %v", err))
	}
	defer bindGroup.Release()

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

// Release frees the pass's GPU resources.
func (p *OverlayPass) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.texture != nil {
		p.texture.Release()
		p.texture = nil
	}
}
