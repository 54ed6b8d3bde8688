// Package graph implements a composable render graph: an ordered chain of
// render nodes connected by ping-pong intermediate targets, with the final
// node writing to the screen or to a caller-provided capture target.
package graph

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

// RenderContext bundles the per-execution state handed to each node. It is
// built fresh for every graph execution and must not be retained past it.
type RenderContext struct {
	// GPU provides device, queue, and surface configuration access.
	GPU *hoplite.Context
	// Encoder records the frame's render passes. All nodes share one
	// encoder; the graph submits it once after the chain runs.
	Encoder *wgpu.CommandEncoder
	// Time is elapsed seconds since application start.
	Time float32
	// Camera is the scene camera for world-space passes.
	Camera *hoplite.Camera
}

// Node is a render graph stage.
//
// Execution flow per frame: CheckHotReload is called once for every node,
// then Execute runs in chain order. target is the view to render into, input
// is the previous node's output or nil for the first node.
//
// Post-processing nodes panic when input is nil, since they have no source
// texture to sample.
type Node interface {
	Execute(ctx *RenderContext, target *wgpu.TextureView, input *wgpu.TextureView)

	// CheckHotReload runs once per frame before Execute. Nodes that watch
	// shader files recompile here; others embed NoReload.
	CheckHotReload(gpu *hoplite.Context)
}

// NoReload provides the no-op CheckHotReload for nodes without hot-reload
// support. Embed it to satisfy Node.
type NoReload struct{}

// CheckHotReload does nothing.
func (NoReload) CheckHotReload(*hoplite.Context) {}
