package graph

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/internal/packing"
)

const (
	cameraUniformSize = 208 // view_proj, view, proj, camera_pos, time
	modelUniformSize  = 144 // model, normal_matrix, color
)

const meshShaderSource = `
struct Camera {
    view_proj: mat4x4f,
    view: mat4x4f,
    proj: mat4x4f,
    camera_pos: vec3f,
    time: f32,
}

struct Model {
    model: mat4x4f,
    normal_matrix: mat4x4f,
    color: vec4f,
}

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<uniform> model: Model;
@group(2) @binding(0) var mesh_texture: texture_2d<f32>;
@group(2) @binding(1) var mesh_sampler: sampler;

struct VsOut {
    @builtin(position) clip: vec4f,
    @location(0) world_pos: vec3f,
    @location(1) normal: vec3f,
    @location(2) uv: vec2f,
}

@vertex
fn vs(
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) uv: vec2f,
) -> VsOut {
    var out: VsOut;
    let world = model.model * vec4f(position, 1.0);
    out.clip = camera.view_proj * world;
    out.world_pos = world.xyz;
    out.normal = (model.normal_matrix * vec4f(normal, 0.0)).xyz;
    out.uv = uv;
    return out;
}

@fragment
fn fs(in: VsOut) -> @location(0) vec4f {
    let n = normalize(in.normal);
    let light_dir = normalize(vec3f(0.5, 1.0, 0.3));
    let diffuse = max(dot(n, light_dir), 0.0);
    let tex = textureSample(mesh_texture, mesh_sampler, in.uv);
    let lit = (0.25 + diffuse * 0.75) * tex.rgb * model.color.rgb;
    return vec4f(lit, tex.a * model.color.a);
}
`

const blitShaderSource = `
@group(0) @binding(0) var src: texture_2d<f32>;
@group(0) @binding(1) var src_sampler: sampler;

struct VsOut {
    @builtin(position) pos: vec4f,
    @location(0) uv: vec2f,
}

@vertex
fn vs(@builtin(vertex_index) index: u32) -> VsOut {
    var out: VsOut;
    let uv = vec2f(f32((index << 1u) & 2u), f32(index & 2u));
    out.pos = vec4f(uv * 2.0 - 1.0, 0.0, 1.0);
    out.uv = vec2f(uv.x, 1.0 - uv.y);
    return out;
}

@fragment
fn fs(in: VsOut) -> @location(0) vec4f {
    return textureSample(src, src_sampler, in.uv);
}
`

// MeshPass renders depth-tested 3D meshes from a draw-call list.
//
// Three bind groups: camera uniforms at group 0 (written once per frame),
// per-draw model uniforms at group 1, and the mesh texture plus sampler at
// group 2. Untextured draws fall back to a 1x1 white texture so the same
// pipeline serves both cases. A blit pipeline composites a previous pass
// over the target as the scene background before meshes draw on top.
//
// The pass owns a Depth24Plus depth buffer sized to the surface; call
// ensureDepthSize each frame before rendering so window resizes take
// effect. MeshNode does this automatically.
type MeshPass struct {
	pipeline        *wgpu.RenderPipeline
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
	modelBuffer     *wgpu.Buffer
	modelBindGroup  *wgpu.BindGroup
	textureLayout   *wgpu.BindGroupLayout
	defaultTexture  *Texture

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	depthWidth   uint32
	depthHeight  uint32

	blitPipeline *wgpu.RenderPipeline
	blitLayout   *wgpu.BindGroupLayout
	blitSampler  *wgpu.Sampler
}

// NewMeshPass builds the mesh and blit pipelines, uniform buffers, the
// default white texture, and a depth buffer at the current surface size.
func NewMeshPass(gpu *hoplite.Context) (*MeshPass, error) {
	device := gpu.Device

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Mesh Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: meshShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("graph: compile mesh shader: %w", err)
	}
	defer shader.Release()

	p := &MeshPass{}
	fail := func(step string, err error) (*MeshPass, error) {
		p.Release()
		return nil, fmt.Errorf("graph: %s: %w", step, err)
	}

	p.cameraBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Camera Uniforms",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail("create camera uniform buffer", err)
	}

	uniformLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Mesh Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return fail("create mesh uniform layout", err)
	}
	defer uniformLayout.Release()

	p.cameraBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Mesh Camera Bind Group",
		Layout: uniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  p.cameraBuffer,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fail("create camera bind group", err)
	}

	p.modelBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Model Uniforms",
		Size:  modelUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fail("create model uniform buffer", err)
	}

	p.modelBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Mesh Model Bind Group",
		Layout: uniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  p.modelBuffer,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fail("create model bind group", err)
	}

	p.textureLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Mesh Texture Layout",
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
		return fail("create mesh texture layout", err)
	}

	p.defaultTexture, err = NewTexture(gpu, []byte{255, 255, 255, 255}, 1, 1, "Default White")
	if err != nil {
		return fail("create default texture", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Mesh Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniformLayout, uniformLayout, p.textureLayout},
	})
	if err != nil {
		return fail("create mesh pipeline layout", err)
	}
	defer pipelineLayout.Release()

	p.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Mesh Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs",
			Targets: []wgpu.ColorTargetState{{
				Format:    gpu.Format(),
				Blend:     &blendAlpha,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fail("create mesh pipeline", err)
	}

	if err := p.createDepthTexture(gpu); err != nil {
		return fail("create depth texture", err)
	}

	if err := p.createBlitPipeline(gpu); err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

func (p *MeshPass) createBlitPipeline(gpu *hoplite.Context) error {
	device := gpu.Device

	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Blit Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: blitShaderSource},
	})
	if err != nil {
		return fmt.Errorf("graph: compile blit shader: %w", err)
	}
	defer shader.Release()

	p.blitSampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Blit Sampler",
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
		return fmt.Errorf("graph: create blit sampler: %w", err)
	}

	p.blitLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Blit Layout",
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
		return fmt.Errorf("graph: create blit layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Blit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.blitLayout},
	})
	if err != nil {
		return fmt.Errorf("graph: create blit pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	p.blitPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Blit Pipeline",
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
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("graph: create blit pipeline: %w", err)
	}
	return nil
}

func (p *MeshPass) createDepthTexture(gpu *hoplite.Context) error {
	texture, err := gpu.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Mesh Depth Texture",
		Size: wgpu.Extent3D{
			Width:              gpu.Width(),
			Height:             gpu.Height(),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return err
	}

	p.depthTexture = texture
	p.depthView = view
	p.depthWidth = gpu.Width()
	p.depthHeight = gpu.Height()
	return nil
}

// ensureDepthSize recreates the depth buffer if the surface was resized.
func (p *MeshPass) ensureDepthSize(gpu *hoplite.Context) {
	if p.depthWidth == gpu.Width() && p.depthHeight == gpu.Height() {
		return
	}
	p.depthView.Release()
	p.depthTexture.Release()
	p.depthTexture = nil
	p.depthView = nil
	if err := p.createDepthTexture(gpu); err != nil {
		panic(fmt.Sprintf("graph: resize depth texture: %v", err))
	}
}

// blit draws input as a fullscreen background into the active pass.
func (p *MeshPass) blit(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, input *wgpu.TextureView) {
	bindGroup, err := gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Blit Bind Group",
		Layout: p.blitLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: input},
			{Binding: 1, Sampler: p.blitSampler},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("graph: create blit bind group: %v", err))
	}
	defer bindGroup.Release()

	pass.SetPipeline(p.blitPipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
}

// Render draws the queued calls. Camera uniforms are written once, then
// each call updates the model uniforms, binds its texture, and issues an
// indexed draw. Does nothing when the list is empty.
func (p *MeshPass) Render(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder, camera *hoplite.Camera, time float32, calls []DrawCall) {
	if len(calls) == 0 {
		return
	}

	view := camera.ViewMatrix()
	proj := camera.ProjectionMatrix(gpu.Aspect(), camera.Near, camera.Far)
	viewProj := proj.Mul4(view)

	gpu.Queue.WriteBuffer(p.cameraBuffer, 0, packing.NewBlock(cameraUniformSize).
		Mat4(viewProj).
		Mat4(view).
		Mat4(proj).
		Vec3(camera.Position).
		Float32(time).
		Bytes())

	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.cameraBindGroup, nil)

	for _, call := range calls {
		model := call.Transform.Matrix()
		normal := model.Inv().Transpose()

		gpu.Queue.WriteBuffer(p.modelBuffer, 0, packing.NewBlock(modelUniformSize).
			Mat4(model).
			Mat4(normal).
			Vec4(call.Color.Vec4()).
			Bytes())

		pass.SetBindGroup(1, p.modelBindGroup, nil)

		texture := call.Texture
		if texture == nil {
			texture = p.defaultTexture
		}
		textureGroup, err := gpu.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Mesh Texture Bind Group",
			Layout: p.textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: texture.View},
				{Binding: 1, Sampler: texture.Sampler},
			},
		})
		if err != nil {
			panic(fmt.Sprintf("graph: create mesh texture bind group: %v", err))
		}
		pass.SetBindGroup(2, textureGroup, nil)

		pass.SetVertexBuffer(0, call.Mesh.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(call.Mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(call.Mesh.indexCount, 1, 0, 0, 0)

		textureGroup.Release()
	}
}

// Release frees the pass's GPU resources.
func (p *MeshPass) Release() {
	if p.blitPipeline != nil {
		p.blitPipeline.Release()
	}
	if p.blitLayout != nil {
		p.blitLayout.Release()
	}
	if p.blitSampler != nil {
		p.blitSampler.Release()
	}
	if p.depthView != nil {
		p.depthView.Release()
	}
	if p.depthTexture != nil {
		p.depthTexture.Release()
	}
	if p.defaultTexture != nil {
		p.defaultTexture.Release()
	}
	if p.textureLayout != nil {
		p.textureLayout.Release()
	}
	if p.modelBindGroup != nil {
		p.modelBindGroup.Release()
	}
	if p.modelBuffer != nil {
		p.modelBuffer.Release()
	}
	if p.cameraBindGroup != nil {
		p.cameraBindGroup.Release()
	}
	if p.cameraBuffer != nil {
		p.cameraBuffer.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}

// MeshNode renders a MeshQueue's draw calls as a graph node. When an input
// view is present it is composited first as the background, otherwise the
// target is cleared.
type MeshNode struct {
	NoReload
	Pass  *MeshPass
	Queue *MeshQueue

	clear hoplite.Color
}

// NewMeshNode creates a node rendering the given queue, clearing to black
// when there is no input to composite.
func NewMeshNode(pass *MeshPass, queue *MeshQueue) *MeshNode {
	return &MeshNode{Pass: pass, Queue: queue, clear: hoplite.Black}
}

// WithClear sets the background clear color used when the node has no
// input.
func (n *MeshNode) WithClear(c hoplite.Color) *MeshNode {
	n.clear = c
	return n
}

// Execute draws the queued meshes with depth testing into target.
func (n *MeshNode) Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView) {
	n.Pass.ensureDepthSize(ctx.GPU)

	pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Mesh Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: n.clear.WGPU(),
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            n.Pass.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer endPass(pass)

	if input != nil {
		n.Pass.blit(ctx.GPU, pass, input)
	}
	n.Pass.Render(ctx.GPU, pass, ctx.Camera, ctx.Time, n.Queue.Calls())
}
