package scene

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/internal/packing"
)

// resolution, progress, pad, color
const transitionUniformSize = 32

const fadeShaderSource = `
struct Uniforms {
    resolution: vec2f,
    progress: f32,
    _pad: f32,
    color: vec4f,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var scene_texture: texture_2d<f32>;
@group(0) @binding(2) var scene_sampler: sampler;

@vertex
fn vs(@builtin(vertex_index) vi: u32) -> @builtin(position) vec4f {
    let x = f32(i32(vi) - 1);
    let y = f32(i32(vi & 1u) * 2 - 1);
    return vec4f(x, y, 0.0, 1.0);
}

@fragment
fn fs(@builtin(position) pos: vec4f) -> @location(0) vec4f {
    let uv = pos.xy / u.resolution;
    let scene = textureSample(scene_texture, scene_sampler, uv);
    return mix(scene, u.color, u.progress);
}
`

const crossfadeShaderSource = `
struct Uniforms {
    resolution: vec2f,
    progress: f32,
    _pad: f32,
    color: vec4f,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var old_texture: texture_2d<f32>;
@group(0) @binding(2) var new_texture: texture_2d<f32>;
@group(0) @binding(3) var tex_sampler: sampler;

@vertex
fn vs(@builtin(vertex_index) vi: u32) -> @builtin(position) vec4f {
    let x = f32(i32(vi) - 1);
    let y = f32(i32(vi & 1u) * 2 - 1);
    return vec4f(x, y, 0.0, 1.0);
}

@fragment
fn fs(@builtin(position) pos: vec4f) -> @location(0) vec4f {
    let uv = pos.xy / u.resolution;
    let old_scene = textureSample(old_texture, tex_sampler, uv);
    let new_scene = textureSample(new_texture, tex_sampler, uv);
    return mix(old_scene, new_scene, u.progress);
}
`

// TransitionPass composites captured scene textures to the screen during a
// transition. It owns two fullscreen pipelines: fade blends one scene with a
// solid color, crossfade blends two scenes with each other. Both record into
// the manager's frame encoder.
type TransitionPass struct {
	fadePipeline      *wgpu.RenderPipeline
	crossfadePipeline *wgpu.RenderPipeline
	fadeLayout        *wgpu.BindGroupLayout
	crossfadeLayout   *wgpu.BindGroupLayout
	uniforms          *wgpu.Buffer
	sampler           *wgpu.Sampler
}

// NewTransitionPass creates the GPU resources for transition compositing.
func NewTransitionPass(gpu *hoplite.Context) (*TransitionPass, error) {
	device := gpu.Device
	p := &TransitionPass{}

	fail := func(step string, err error) (*TransitionPass, error) {
		p.Release()
		return nil, fmt.Errorf("scene: %s: %w", step, err)
	}

	var err error
	p.uniforms, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Transition Uniforms",
		Size:  transitionUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail("create transition uniform buffer", err)
	}

	p.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Transition Sampler",
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
		return fail("create transition sampler", err)
	}

	uniformEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
	}
	textureEntry := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		}
	}
	samplerEntry := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		}
	}

	p.fadeLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Fade Transition Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry, textureEntry(1), samplerEntry(2)},
	})
	if err != nil {
		return fail("create fade layout", err)
	}

	p.crossfadeLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Crossfade Transition Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry, textureEntry(1), textureEntry(2), samplerEntry(3)},
	})
	if err != nil {
		return fail("create crossfade layout", err)
	}

	p.fadePipeline, err = createTransitionPipeline(gpu, "Fade Transition", fadeShaderSource, p.fadeLayout)
	if err != nil {
		return fail("create fade pipeline", err)
	}
	p.crossfadePipeline, err = createTransitionPipeline(gpu, "Crossfade Transition", crossfadeShaderSource, p.crossfadeLayout)
	if err != nil {
		return fail("create crossfade pipeline", err)
	}

	return p, nil
}

func createTransitionPipeline(gpu *hoplite.Context, label, source string, layout *wgpu.BindGroupLayout) (*wgpu.RenderPipeline, error) {
	device := gpu.Device

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Pipeline",
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
}

var blendReplace = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

func (p *TransitionPass) writeUniforms(gpu *hoplite.Context, progress float32, color hoplite.Color) {
	block := packing.NewBlock(transitionUniformSize).
		Vec2(mgl32.Vec2{float32(gpu.Width()), float32(gpu.Height())}).
		Float32(progress).
		Pad(1).
		Vec4(color.Vec4())
	gpu.Queue.WriteBuffer(p.uniforms, 0, block.Bytes())
}

// RenderFade composites a captured scene blended with a solid color into
// target. overlayAlpha 0 shows only the scene, 1 only the color.
func (p *TransitionPass) RenderFade(gpu *hoplite.Context, encoder *wgpu.CommandEncoder, target, sceneView *wgpu.TextureView, color hoplite.Color, overlayAlpha float32) {
	p.writeUniforms(gpu, overlayAlpha, color)

	bindGroup, err := gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Fade Transition Bind Group",
		Layout: p.fadeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.uniforms, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: sceneView},
			{Binding: 2, Sampler: p.sampler},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("scene: create fade bind group: %v", err))
	}
	defer bindGroup.Release()

	p.draw(encoder, target, p.fadePipeline, bindGroup)
}

// RenderCrossfade composites two captured scenes blended together into
// target. blend 0 shows only the old scene, 1 only the new one.
func (p *TransitionPass) RenderCrossfade(gpu *hoplite.Context, encoder *wgpu.CommandEncoder, target, oldView, newView *wgpu.TextureView, blend float32) {
	p.writeUniforms(gpu, blend, hoplite.Color{})

	bindGroup, err := gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Crossfade Transition Bind Group",
		Layout: p.crossfadeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.uniforms, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: oldView},
			{Binding: 2, TextureView: newView},
			{Binding: 3, Sampler: p.sampler},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("scene: create crossfade bind group: %v", err))
	}
	defer bindGroup.Release()

	p.draw(encoder, target, p.crossfadePipeline, bindGroup)
}

func (p *TransitionPass) draw(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, pipeline *wgpu.RenderPipeline, bindGroup *wgpu.BindGroup) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: hoplite.Black.WGPU(),
		}},
	})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()
}

// Release frees the pass's GPU resources.
func (p *TransitionPass) Release() {
	if p.fadePipeline != nil {
		p.fadePipeline.Release()
		p.fadePipeline = nil
	}
	if p.crossfadePipeline != nil {
		p.crossfadePipeline.Release()
		p.crossfadePipeline = nil
	}
	if p.fadeLayout != nil {
		p.fadeLayout.Release()
		p.fadeLayout = nil
	}
	if p.crossfadeLayout != nil {
		p.crossfadeLayout.Release()
		p.crossfadeLayout = nil
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
