package graph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/internal/packing"
)

const (
	screenUniformSize = 16 // resolution, time, pad
	worldUniformSize  = 80 // resolution, time, fov, camera basis, aspect
)

// blendReplace overwrites the destination outright.
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

// blendAlpha composites straight-alpha sources over the destination.
var blendAlpha = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// EffectPass renders a fullscreen triangle with a custom fragment shader.
//
// Two modes:
//   - Screen-space (NewEffectPass): uniforms carry resolution and time.
//     Color grading, vignettes, procedural backgrounds.
//   - World-space (NewWorldEffectPass): uniforms additionally carry the
//     camera position, basis vectors, field of view, and aspect ratio, so
//     the shader can cast rays. Raymarching and volumetrics.
//
// The WGSL source must define vertex and fragment entry points named vs and
// fs, with the uniform block at @group(0) @binding(0):
//
//	struct Uniforms { resolution: vec2f, time: f32 }
//	@group(0) @binding(0) var<uniform> u: Uniforms;
//
// World-space shaders extend the block with fov, camera_pos, camera_forward,
// camera_right, camera_up, and aspect (vec3 fields carry implicit padding).
type EffectPass struct {
	pipeline  *wgpu.RenderPipeline
	uniforms  *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	world     bool
}

// NewEffectPass compiles a screen-space effect from WGSL source.
func NewEffectPass(gpu *hoplite.Context, source string) (*EffectPass, error) {
	return newEffectPass(gpu, source, false)
}

// NewWorldEffectPass compiles a world-space effect from WGSL source.
func NewWorldEffectPass(gpu *hoplite.Context, source string) (*EffectPass, error) {
	return newEffectPass(gpu, source, true)
}

func newEffectPass(gpu *hoplite.Context, source string, world bool) (*EffectPass, error) {
	device := gpu.Device

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Effect Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("graph: compile effect shader: %w", err)
	}
	defer shader.Release()

	size := uint64(screenUniformSize)
	if world {
		size = worldUniformSize
	}
	uniforms, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Effect Uniforms",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("graph: create effect uniform buffer: %w", err)
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Effect Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		uniforms.Release()
		return nil, fmt.Errorf("graph: create effect bind group layout: %w", err)
	}
	defer layout.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Effect Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  uniforms,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		uniforms.Release()
		return nil, fmt.Errorf("graph: create effect bind group: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Effect Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		bindGroup.Release()
		uniforms.Release()
		return nil, fmt.Errorf("graph: create effect pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Effect Pipeline",
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
		bindGroup.Release()
		uniforms.Release()
		return nil, fmt.Errorf("graph: create effect pipeline: %w", err)
	}

	return &EffectPass{
		pipeline:  pipeline,
		uniforms:  uniforms,
		bindGroup: bindGroup,
		world:     world,
	}, nil
}

// UsesCamera reports whether this pass needs camera data. True means render
// through RenderWithCamera.
func (p *EffectPass) UsesCamera() bool {
	return p.world
}

// Render uploads screen uniforms and draws the fullscreen triangle into the
// active pass. Panics when the pass was created world-space.
func (p *EffectPass) Render(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32) {
	if p.world {
		panic("graph: world-space effect rendered without a camera; use RenderWithCamera")
	}

	block := packing.NewBlock(screenUniformSize).
		Vec2(mgl32.Vec2{float32(gpu.Width()), float32(gpu.Height())}).
		Float32(time).
		Pad(1)
	gpu.Queue.WriteBuffer(p.uniforms, 0, block.Bytes())

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

// RenderWithCamera uploads world uniforms including the camera basis and
// draws the fullscreen triangle. Panics when the pass was created
// screen-space.
func (p *EffectPass) RenderWithCamera(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, time float32, camera *hoplite.Camera) {
	if !p.world {
		panic("graph: screen-space effect rendered with a camera; use Render")
	}

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

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

// Release frees the pass's GPU resources.
func (p *EffectPass) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.uniforms != nil {
		p.uniforms.Release()
		p.uniforms = nil
	}
}

// EffectNode wraps an EffectPass for use in a render graph. Effect nodes sit
// at the front of a chain and render without input.
//
// The target is cleared to black before rendering by default; WithClear sets
// another color and NoClear loads the existing contents for layering.
type EffectNode struct {
	NoReload

	// Effect is the wrapped pass.
	Effect *EffectPass

	clear    hoplite.Color
	hasClear bool
}

// NewEffectNode wraps an effect pass with the default black clear.
func NewEffectNode(effect *EffectPass) *EffectNode {
	return &EffectNode{Effect: effect, clear: hoplite.Black, hasClear: true}
}

// WithClear sets the clear color.
func (n *EffectNode) WithClear(c hoplite.Color) *EffectNode {
	n.clear = c
	n.hasClear = true
	return n
}

// NoClear preserves existing target contents instead of clearing.
func (n *EffectNode) NoClear() *EffectNode {
	n.hasClear = false
	return n
}

// Execute renders the effect into target. input is ignored.
func (n *EffectNode) Execute(ctx *RenderContext, target *wgpu.TextureView, _ *wgpu.TextureView) {
	pass := beginColorPass(ctx.Encoder, target, n.clear, n.hasClear)
	defer endPass(pass)

	if n.Effect.UsesCamera() {
		n.Effect.RenderWithCamera(ctx.GPU, pass, ctx.Time, ctx.Camera)
	} else {
		n.Effect.Render(ctx.GPU, pass, ctx.Time)
	}
}

// beginColorPass starts a single-attachment render pass, clearing to the
// given color or loading existing contents.
func beginColorPass(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, clear hoplite.Color, doClear bool) *wgpu.RenderPassEncoder {
	load := wgpu.LoadOpLoad
	if doClear {
		load = wgpu.LoadOpClear
	}
	return encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     load,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear.WGPU(),
		}},
	})
}

func endPass(pass *wgpu.RenderPassEncoder) {
	pass.End()
	pass.Release()
}
