package scene

import (
	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/graph"
)

// FrameFunc runs one frame of a scene's logic. It receives the per-frame
// Frame aggregate and may queue draws, move the camera, or request a scene
// switch through it.
type FrameFunc func(f *Frame)

// Scene is one registered screen of the application: a menu, a level, a
// loading screen. Each scene owns its camera and optionally a render graph;
// the mesh queue is shared across scenes because meshes and textures are
// application-wide assets.
//
// A Scene with a nil Graph renders as solid black, which is valid for scenes
// that only draw UI through the overlay.
type Scene struct {
	// ID is the name the scene was registered under.
	ID string

	// Camera is this scene's own camera. Switching scenes switches
	// cameras with it.
	Camera hoplite.Camera

	// Graph renders the scene's frame. Optional.
	Graph *graph.Graph

	// Meshes is the shared mesh registry and draw queue.
	Meshes *graph.MeshQueue

	// Frame runs the scene's per-frame logic. Optional.
	Frame FrameFunc

	// OnEnter runs when the scene becomes active. Optional.
	OnEnter func()

	// OnExit runs when the scene stops being active. Optional.
	OnExit func()
}

// NewScene creates a scene with a default camera and no render graph.
func NewScene(id string) *Scene {
	return &Scene{ID: id, Camera: hoplite.NewCamera()}
}

func (s *Scene) enter() {
	if s.OnEnter != nil {
		s.OnEnter()
	}
}

func (s *Scene) exit() {
	if s.OnExit != nil {
		s.OnExit()
	}
}
