// Command hoplite-demo shows the engine end to end: a mesh scene with an
// orbit camera, a raymarched scene with a freelook camera, fade and
// crossfade transitions between them, and a HUD overlay.
//
// Keys: 1 fades to the mesh scene, 2 crossfades to the raymarch scene,
// Escape quits. Drag with the left mouse button to orbit, scroll to zoom;
// in the raymarch scene use WASD and the mouse to fly.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/draw2d"
	"github.com/xandwr/hoplite/graph"
	"github.com/xandwr/hoplite/scene"
)

func init() {
	// GLFW event handling must run on the main OS thread.
	runtime.LockOSThread()
}

const tunnelShader = `
struct Uniforms {
    resolution: vec2f,
    time: f32,
    fov: f32,
    camera_pos: vec3f,
    camera_forward: vec3f,
    camera_right: vec3f,
    camera_up: vec3f,
    aspect: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

@vertex
fn vs(@builtin(vertex_index) vi: u32) -> @builtin(position) vec4f {
    let x = f32(i32(vi) - 1);
    let y = f32(i32(vi & 1u) * 2 - 1);
    return vec4f(x * 3.0, y * 3.0, 0.0, 1.0);
}

fn scene_dist(p: vec3f) -> f32 {
    let q = vec2f(length(p.xy) - 3.0, fract(p.z * 0.25 + u.time * 0.1) * 4.0 - 2.0);
    return length(q) - 0.8;
}

@fragment
fn fs(@builtin(position) pos: vec4f) -> @location(0) vec4f {
    let ndc = (pos.xy / u.resolution) * 2.0 - 1.0;
    let half_fov = tan(u.fov * 0.5);
    let dir = normalize(
        u.camera_forward
        + u.camera_right * ndc.x * half_fov * u.aspect
        - u.camera_up * ndc.y * half_fov);

    var t = 0.0;
    var glow = 0.0;
    for (var i = 0; i < 64; i++) {
        let p = u.camera_pos + dir * t;
        let d = scene_dist(p);
        glow += 0.02 / (1.0 + d * d * 8.0);
        if (d < 0.001 || t > 60.0) {
            break;
        }
        t += d;
    }

    let base = vec3f(0.05, 0.02, 0.1);
    let tint = vec3f(0.3, 0.6, 1.0) * glow;
    return vec4f(base + tint, 1.0);
}
`

func main() {
	var (
		width  = flag.Int("width", 1280, "window width")
		height = flag.Int("height", 720, "window height")
	)
	flag.Parse()

	if err := glfw.Init(); err != nil {
		log.Fatalf("init glfw: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(*width, *height, "hoplite demo", nil, nil)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	gpu := hoplite.NewContext(wgpuglfw.GetSurfaceDescriptor(window), uint32(*width), uint32(*height))
	defer gpu.Release()

	input := hoplite.NewInput()
	wireInput(window, gpu, input)

	meshes := graph.NewMeshQueue()
	defer meshes.Release()

	cube := mustMesh(graph.Cube(gpu))
	sphere := mustMesh(graph.Sphere(gpu, 32, 16))
	floor := mustMesh(graph.Plane(gpu, 12))
	cubeH := meshes.AddMesh(cube)
	sphereH := meshes.AddMesh(sphere)
	floorH := meshes.AddMesh(floor)

	manager := scene.NewManager(gpu)
	defer manager.Release()
	manager.Register(buildMeshScene(gpu, meshes, cubeH, sphereH, floorH))
	manager.Register(buildTunnelScene(gpu, meshes))
	manager.SetActive("meshes")

	overlayPass, err := draw2d.NewOverlayPass(gpu)
	if err != nil {
		log.Fatalf("create overlay pass: %v", err)
	}
	defer overlayPass.Release()
	overlay := draw2d.NewOverlay(*width, *height)

	last := float32(glfw.GetTime())
	for !window.ShouldClose() {
		input.BeginFrame()
		glfw.PollEvents()
		if input.KeyPressed(hoplite.KeyEscape) {
			window.SetShouldClose(true)
		}

		now := float32(glfw.GetTime())
		dt := now - last
		last = now

		manager.Update(now)
		manager.RunFrame(input, now, dt)

		drawHUD(overlay, gpu, manager)
		manager.Render(now, func(gpu *hoplite.Context, pass *wgpu.RenderPassEncoder) {
			overlayPass.Draw(gpu, pass, overlay)
		})

		meshes.ClearQueue()
	}
}

func buildMeshScene(gpu *hoplite.Context, meshes *graph.MeshQueue, cubeH, sphereH, floorH int) *scene.Scene {
	pass, err := graph.NewMeshPass(gpu)
	if err != nil {
		log.Fatalf("create mesh pass: %v", err)
	}
	g, err := graph.NewBuilder().
		Node(graph.NewMeshNode(pass, meshes).WithClear(hoplite.RGB(0.04, 0.05, 0.09))).
		Build(gpu)
	if err != nil {
		log.Fatalf("build mesh graph: %v", err)
	}

	orbit := hoplite.NewOrbitCamera().
		Target(0, 0.5, 0).
		Distance(7).
		AutoRotate(0.15).
		DistanceLimits(3, 20)

	s := scene.NewScene("meshes")
	s.Graph = g
	s.Meshes = meshes
	s.Frame = func(f *scene.Frame) {
		orbit.Update(f.Input, f.DT)
		*f.Camera = orbit.Camera()

		spin := mgl32.QuatRotate(f.Time*0.7, mgl32.Vec3{0, 1, 0})
		f.Meshes.Draw(cubeH, graph.TransformAt(-1.8, 0.5, 0).Rotated(spin), hoplite.RGB(0.9, 0.4, 0.2))
		f.Meshes.Draw(sphereH, graph.TransformAt(1.8, 0.5, 0).UniformScale(1.4), hoplite.RGB(0.2, 0.5, 0.9))
		f.Meshes.Draw(floorH, graph.NewTransform(), hoplite.RGB(0.25, 0.27, 0.3))

		if f.Input.KeyPressed(hoplite.Key2) {
			f.SwitchToWith("tunnel", scene.Crossfade(1.2))
		}
	}
	return s
}

func buildTunnelScene(gpu *hoplite.Context, meshes *graph.MeshQueue) *scene.Scene {
	effect, err := graph.NewWorldEffectPass(gpu, tunnelShader)
	if err != nil {
		log.Fatalf("create tunnel effect: %v", err)
	}
	g, err := graph.NewBuilder().
		Node(graph.NewEffectNode(effect)).
		Build(gpu)
	if err != nil {
		log.Fatalf("build tunnel graph: %v", err)
	}

	free := hoplite.NewFreelookCamera().
		At(mgl32.Vec3{0, 0, 8}).
		WithSpeed(4)

	s := scene.NewScene("tunnel")
	s.Graph = g
	s.Meshes = meshes
	s.Frame = func(f *scene.Frame) {
		free.Update(f.Input, f.DT)
		*f.Camera = free.Camera()

		if f.Input.KeyPressed(hoplite.Key1) {
			f.SwitchToWith("meshes", scene.FadeToBlack(1))
		}
	}
	return s
}

func drawHUD(overlay *draw2d.Overlay, gpu *hoplite.Context, manager *scene.Manager) {
	overlay.Resize(int(gpu.Width()), int(gpu.Height()))
	overlay.Clear(hoplite.Transparent)

	overlay.Text(10, 10, "1: mesh scene (fade)   2: tunnel scene (crossfade)   esc: quit", hoplite.White)
	overlay.Text(10, 26, fmt.Sprintf("scene: %s", manager.ActiveID()), hoplite.Yellow)

	if t := manager.ActiveTransition(); t != nil {
		barW := 120
		overlay.StrokeRect(10, 44, barW, 8, hoplite.White)
		overlay.FillRect(11, 45, int(float32(barW-2)*t.Progress), 6, hoplite.Cyan)
	}
}

func wireInput(window *glfw.Window, gpu *hoplite.Context, input *hoplite.Input) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			input.KeyEvent(hoplite.Key(key), true)
		case glfw.Release:
			input.KeyEvent(hoplite.Key(key), false)
		}
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		input.MouseButtonEvent(hoplite.MouseButton(button), action == glfw.Press)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		input.CursorMoved(float32(x), float32(y))
	})
	window.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		input.Scroll(float32(dx), float32(dy))
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gpu.Resize(uint32(w), uint32(h))
	})
}

func mustMesh(m *graph.Mesh, err error) *graph.Mesh {
	if err != nil {
		log.Fatalf("create mesh: %v", err)
	}
	return m
}
