package scene

import (
	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/graph"
)

// Frame is the per-frame aggregate the manager hands to the active scene's
// FrameFunc. It bundles everything a frame of game logic needs and collects
// the scene's outputs: draw calls go into Meshes, camera movement mutates
// Camera through the pointer, and a scene switch request lands in the switch
// slot for the manager to pick up after the frame function returns.
type Frame struct {
	// GPU is the engine's GPU context.
	GPU *hoplite.Context

	// Input is the current input snapshot.
	Input *hoplite.Input

	// Camera points at the active scene's camera.
	Camera *hoplite.Camera

	// Meshes is the shared mesh queue for issuing draw calls.
	Meshes *graph.MeshQueue

	// Time is the absolute time in seconds.
	Time float32

	// DT is the time since the previous frame in seconds.
	DT float32

	switchTarget    string
	switchWith      Transition
	switchRequested bool
}

// SwitchTo requests an instant switch to the named scene. The request is
// applied by the manager on its next update, never mid-frame.
func (f *Frame) SwitchTo(name string) {
	f.SwitchToWith(name, Instant())
}

// SwitchToWith requests a switch to the named scene using the given
// transition. A later request in the same frame replaces an earlier one.
func (f *Frame) SwitchToWith(name string, t Transition) {
	f.switchTarget = name
	f.switchWith = t
	f.switchRequested = true
}
