package graph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/internal/packing"
)

// PostProcessPass samples the previous pass's output and applies a
// fullscreen transformation: blur, bloom, color grading, vignette,
// chromatic aberration.
//
// Shader bindings at group 0: binding 0 the uniform block (resolution,
// time), binding 1 the input texture, binding 2 a linear clamping sampler.
// Entry points vs and fs, as with EffectPass.
type PostProcessPass struct {
	pipeline *wgpu.RenderPipeline
	uniforms *wgpu.Buffer
	layout   *wgpu.BindGroupLayout
	sampler  *wgpu.Sampler
	world    bool
}

// WorldPostProcessPass is a PostProcessPass whose uniform block additionally
// carries the camera basis, for depth-style effects that reconstruct view
// rays: volumetric fog, screen-space raymarching, god rays.
type WorldPostProcessPass struct {
	PostProcessPass
}

// NewPostProcessPass compiles a screen-space post-process pass from WGSL
// source.
func NewPostProcessPass(gpu *hoplite.Context, source string) (*PostProcessPass, error) {
	p, err := newPostProcessPass(gpu, source, false)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// NewWorldPostProcessPass compiles a world-space post-process pass from WGSL
// source.
func NewWorldPostProcessPass(gpu *hoplite.Context, source string) (*WorldPostProcessPass, error) {
	p, err := newPostProcessPass(gpu, source, true)
	if err != nil {
		return nil, err
	}
	return &WorldPostProcessPass{PostProcessPass: *p}, nil
}

func newPostProcessPass(gpu *hoplite.Context, source string, world bool) (*PostProcessPass, error) {
	device := gpu.Device

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PostProcess Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("graph: compile post-process shader: %w", err)
	}
	defer shader.Release()

	size := uint64(screenUniformSize)
	if world {
		size = worldUniformSize
	}
	uniforms, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "PostProcess Uniforms",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: create post-process uniform buffer: %w", err)
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "PostProcess Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		uniforms.Release()
		return nil, fmt.Errorf("graph: create post-process sampler: %w", err)
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PostProcess Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		sampler.Release()
		uniforms.Release()
		return nil, fmt.Errorf("graph: create post-process bind group layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "PostProcess Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		sampler.Release()
		uniforms.Release()
		return nil, fmt.Errorf("graph: create post-process pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PostProcess Pipeline",
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
				Blend:     &blendReplace,
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
		layout.Release()
		sampler.Release()
		uniforms.Release()
		return nil, fmt.Errorf("graph: create post-process pipeline: %w", err)
	}

	return &PostProcessPass{
		pipeline: pipeline,
		uniforms: uniforms,
		layout:   layout,
		sampler:  sampler,
		world:    world,
	}, nil
}

// bindInput builds a bind group sampling the given input view. Built per
// draw; the input view changes with the ping-pong phase.
func (p *PostProcessPass) bindInput(gpu *hoplite.Context, input *wgpu.TextureView) (*wgpu.BindGroup, error) {
	return gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PostProcess Bind Group",
		Layout: p.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.uniforms, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: input},
			{Binding: 2, Sampler: p.sampler},
		},
	})
}

// Render uploads screen uniforms, binds the input texture, and draws the
// fullscreen triangle into the active pass.
func (p *PostProcessPass) Render(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, input *wgpu.TextureView) {
	block := packing.NewBlock(screenUniformSize).
		Vec2(mgl32.Vec2{float32(gpu.Width()), float32(gpu.Height())}).
		Float32(time).
		Pad(1)
	gpu.Queue.WriteBuffer(p.uniforms, 0, block.Bytes())

	p.draw(gpu, pass, input)
}

// RenderWithCamera uploads world uniforms including the camera basis, binds
// the input texture, and draws the fullscreen triangle.
func (p *WorldPostProcessPass) RenderWithCamera(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, camera *hoplite.Camera, input *wgpu.TextureView) {
	block := packing.NewBlock(worldUniformSize).
		Vec2(mgl32.Vec2{float32(gpu.Width()), float32(gpu.Height())}).
		Float32(time).
		Float32(camera.FOV).
		Vec3(camera.Position).Pad(1).
		Vec3(camera.Forward).Pad(1).
		Vec3(camera.Right()).Pad(1).
		Vec3(camera.OrthogonalUp()).
		Float32(gpu.Aspect())
	gpu.Queue.WriteBuffer(p.uniforms, 0, block.Bytes())

	p.draw(gpu, pass, input)
}

func (p *PostProcessPass) draw(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, input *wgpu.TextureView) {
	bindGroup, err := p.bindInput(gpu, input)
	if err != nil {
		panic("graph: create post-process bind group: " + err.Error())
	}
	defer bindGroup.Release()

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

// Release frees the pass's GPU resources.
func (p *PostProcessPass) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.uniforms != nil {
		p.uniforms.Release()
		p.uniforms = nil
	}
}

// PostProcessNode wraps a PostProcessPass as a graph node. It requires a
// previous node in the chain and panics when placed first.
type PostProcessNode struct {
	NoReload

	// Pass is the wrapped post-process pass.
	Pass *PostProcessPass
}

// NewPostProcessNode wraps a post-process pass.
func NewPostProcessNode(pass *PostProcessPass) *PostProcessNode {
	return &PostProcessNode{Pass: pass}
}

// Execute samples input into target. Panics when input is nil.
func (n *PostProcessNode) Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView) {
	if input == nil {
		panic("graph: post-process node placed first in chain; it needs a previous pass to sample")
	}

	pass := beginColorPass(ctx.Encoder, target, hoplite.Black, true)
	defer endPass(pass)

	n.Pass.Render(ctx.GPU, pass, ctx.Time, input)
}

// WorldPostProcessNode wraps a WorldPostProcessPass as a graph node. Like
// PostProcessNode it panics when placed first in the chain.
type WorldPostProcessNode struct {
	NoReload

	// Pass is the wrapped world post-process pass.
	Pass *WorldPostProcessPass
}

// NewWorldPostProcessNode wraps a world post-process pass.
func NewWorldPostProcessNode(pass *WorldPostProcessPass) *WorldPostProcessNode {
	return &WorldPostProcessNode{Pass: pass}
}

// Execute samples input into target with camera uniforms. Panics when input
// is nil.
func (n *WorldPostProcessNode) Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView) {
	if input == nil {
		panic("graph: world post-process node placed first in chain; it needs a previous pass to sample")
	}

	pass := beginColorPass(ctx.Encoder, target, hoplite.Black, true)
	defer endPass(pass)

	n.Pass.RenderWithCamera(ctx.GPU, pass, ctx.Time, ctx.Camera, input)
}
