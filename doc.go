// Package hoplite is a small real-time rendering engine built on WebGPU.
//
// # Overview
//
// The engine is organized around three ideas:
//
//   - A Context owning the WebGPU device, queue, and presentable surface.
//   - A render graph (package graph) that chains GPU passes — fullscreen
//     effects, post-processing, depth-tested mesh rendering — through two
//     ping-pong buffers, presenting the final pass to the surface.
//   - A scene manager (package scene) that owns named scenes, each with its
//     own camera and render graph, and drives animated transitions
//     (fade-to-color, crossfade, instant) between them.
//
// The root package holds the GPU context and the self-contained collaborators
// every layer consumes: Camera, Color, Input, the orbit/freelook camera
// controllers, and raycasting helpers.
//
// # Execution Model
//
// All CPU-side work happens on a single goroutine in strict per-frame
// sequence: input poll, scene update, transition update, render dispatch,
// submit, present. GPU work is recorded into one command buffer per frame and
// submitted once; the engine never blocks waiting for GPU completion inside a
// frame. Nothing in the engine spawns goroutines or shares mutable state
// across concurrent call paths.
//
// # Coordinate System
//
// Right-handed world coordinates: +X right, +Y up, -Z into the screen.
// Angles are radians.
package hoplite

// Version information
const (
	// Version is the current version of the engine.
	Version = "0.1.0"

	// VersionMajor is the major version.
	VersionMajor = 0

	// VersionMinor is the minor version.
	VersionMinor = 1

	// VersionPatch is the patch version.
	VersionPatch = 0
)
