package scene

import (
	"log"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
	"github.com/xandwr/hoplite/graph"
)

const (
	captureALabel = "Scene Capture A"
	captureBLabel = "Scene Capture B"
)

type pendingSwitch struct {
	target     string
	transition Transition
}

// Manager owns the scene table and drives switches between scenes.
//
// Switch requests are deferred: SwitchTo records a pending switch, and the
// next Update turns it into an active transition. A request made while a
// transition is already in flight stays pending until that transition
// completes, so transitions never interrupt each other.
//
// At most one transition is in flight at a time. Fade transitions swap the
// active scene at the midpoint, when the screen is fully covered by the
// overlay color; crossfades swap it on the first update so the incoming
// scene's logic runs while both scenes are visible.
type Manager struct {
	gpu    *hoplite.Context
	scenes map[string]*Scene
	active string

	transition *ActiveTransition
	pending    *pendingSwitch

	// Transition compositing resources, created on first use so a
	// manager that never transitions allocates nothing.
	pass     *TransitionPass
	captureA *graph.RenderTarget
	captureB *graph.RenderTarget
}

// NewManager creates an empty scene manager. GPU resources for transition
// compositing are allocated lazily on the first transitioning frame.
func NewManager(gpu *hoplite.Context) *Manager {
	return &Manager{
		gpu:    gpu,
		scenes: make(map[string]*Scene),
	}
}

// Register adds a scene under its ID. Registering the same ID again
// replaces the earlier scene.
func (m *Manager) Register(s *Scene) {
	m.scenes[s.ID] = s
}

// SetActive makes the named scene active immediately, without a transition,
// and runs its OnEnter hook. Use it once at startup; switches during the
// run should go through SwitchTo. An unregistered name is logged and
// ignored.
func (m *Manager) SetActive(name string) {
	s, ok := m.scenes[name]
	if !ok {
		log.Printf("scene: scene %q not found", name)
		return
	}
	m.active = name
	s.enter()
}

// ActiveID returns the name of the active scene, or "" before SetActive.
func (m *Manager) ActiveID() string {
	return m.active
}

// ActiveScene returns the active scene, or nil before SetActive.
func (m *Manager) ActiveScene() *Scene {
	return m.scenes[m.active]
}

// ActiveCamera returns a pointer to the active scene's camera, or nil when
// no scene is active.
func (m *Manager) ActiveCamera() *hoplite.Camera {
	s := m.scenes[m.active]
	if s == nil {
		return nil
	}
	return &s.Camera
}

// SwitchTo requests an instant switch to the named scene.
func (m *Manager) SwitchTo(name string) {
	m.SwitchToWith(name, Instant())
}

// SwitchToWith requests a switch to the named scene with the given
// transition. The switch is applied on the next Update, never mid-frame. An
// unregistered name is logged and ignored; switching to the scene that is
// already active is a no-op unless a transition is in flight, in which case
// the request queues like any other.
func (m *Manager) SwitchToWith(name string, t Transition) {
	if _, ok := m.scenes[name]; !ok {
		log.Printf("scene: scene %q not found", name)
		return
	}
	if name == m.active && m.transition == nil && m.pending == nil {
		return
	}
	m.pending = &pendingSwitch{target: name, transition: t}
}

// IsTransitioning reports whether a transition is in flight.
func (m *Manager) IsTransitioning() bool {
	return m.transition != nil
}

// ActiveTransition returns the in-flight transition, or nil.
func (m *Manager) ActiveTransition() *ActiveTransition {
	return m.transition
}

// Update advances transitions to the given timestamp and reports whether
// the active scene changed this tick.
//
// A pending switch is taken only when no transition is in flight: the
// outgoing scene's OnExit runs and a new transition starts. The incoming
// scene's OnEnter runs when the active id swaps, at the fade midpoint or at
// crossfade start.
func (m *Manager) Update(now float32) bool {
	if m.pending != nil && m.transition == nil {
		p := *m.pending
		m.pending = nil
		if cur := m.scenes[m.active]; cur != nil {
			cur.exit()
		}
		m.transition = newActiveTransition(p.transition, m.active, p.target, now)
	}

	if m.transition == nil {
		return false
	}

	done := m.transition.Update(now)

	changed := false
	swap := false
	if m.transition.IsCrossfade() {
		swap = m.active != m.transition.Target
	} else {
		swap = m.transition.IsMidpoint() && m.active != m.transition.Target
	}
	if swap {
		m.active = m.transition.Target
		if s := m.scenes[m.active]; s != nil {
			s.enter()
		}
		changed = true
	}

	if done {
		m.transition = nil
	}
	return changed
}

// RunFrame executes the active scene's frame function and applies any
// switch request it made. Does nothing when no scene is active or the scene
// has no frame function.
func (m *Manager) RunFrame(input *hoplite.Input, time, dt float32) {
	s := m.scenes[m.active]
	if s == nil || s.Frame == nil {
		return
	}

	f := &Frame{
		GPU:    m.gpu,
		Input:  input,
		Camera: &s.Camera,
		Meshes: s.Meshes,
		Time:   time,
		DT:     dt,
	}
	s.Frame(f)

	if f.switchRequested {
		m.SwitchToWith(f.switchTarget, f.switchWith)
	}
}

// Render draws the current frame to the screen and presents it.
//
// Three paths: with no transition the active scene's graph renders straight
// to the screen; during a fade one scene is captured off-screen and blended
// with the overlay color; during a crossfade both scenes are captured and
// blended with each other. The optional uiFn draws an overlay on top of all
// three.
//
// Surface acquisition failure is recoverable here: the frame is logged and
// skipped, and the next frame tries again.
func (m *Manager) Render(time float32, uiFn graph.UIFunc) {
	s := m.scenes[m.active]
	if s == nil {
		return
	}

	frame, screenView, err := m.gpu.AcquireFrame()
	if err != nil {
		log.Printf("scene: failed to acquire surface texture, skipping frame: %v", err)
		return
	}
	defer frame.Release()
	defer screenView.Release()

	encoder, err := m.gpu.Device.CreateCommandEncoder(nil)
	if err != nil {
		panic("scene: create command encoder: " + err.Error())
	}
	defer encoder.Release()

	ctx := &graph.RenderContext{GPU: m.gpu, Encoder: encoder, Time: time}

	switch {
	case m.transition != nil && m.transition.IsCrossfade():
		m.ensureTransitionResources()
		m.recordScene(ctx, m.scenes[m.transition.Source], m.captureA.View())
		m.recordScene(ctx, m.scenes[m.transition.Target], m.captureB.View())
		m.pass.RenderCrossfade(m.gpu, encoder, screenView,
			m.captureA.View(), m.captureB.View(), m.transition.CrossfadeBlend())

	case m.transition != nil:
		m.ensureTransitionResources()
		m.recordScene(ctx, m.fadeScene(), m.captureA.View())
		_, overlay := m.transition.FadeAlpha()
		m.pass.RenderFade(m.gpu, encoder, screenView,
			m.captureA.View(), m.transition.FadeColor(), overlay)

	default:
		m.recordScene(ctx, s, screenView)
	}

	if uiFn != nil {
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "UI Overlay Pass",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:    screenView,
				LoadOp:  wgpu.LoadOpLoad,
				StoreOp: wgpu.StoreOpStore,
			}},
		})
		uiFn(m.gpu, pass)
		pass.End()
		pass.Release()
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		panic("scene: finish encoder: " + err.Error())
	}
	defer cmd.Release()

	m.gpu.Queue.Submit(cmd)
	m.gpu.Surface.Present()
}

// fadeScene picks which scene a fade shows: the outgoing scene until the
// midpoint, the incoming one after it.
func (m *Manager) fadeScene() *Scene {
	id := m.transition.Source
	if m.transition.Phase == FadingIn {
		id = m.transition.Target
	}
	return m.scenes[id]
}

// recordScene records a scene's graph into the given view on the shared
// frame encoder. A scene without a graph clears the view to black.
func (m *Manager) recordScene(ctx *graph.RenderContext, s *Scene, view *wgpu.TextureView) {
	if s == nil || s.Graph == nil {
		pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: hoplite.Black.WGPU(),
			}},
		})
		pass.End()
		pass.Release()
		return
	}

	sceneCtx := &graph.RenderContext{
		GPU:     ctx.GPU,
		Encoder: ctx.Encoder,
		Time:    ctx.Time,
		Camera:  &s.Camera,
	}
	s.Graph.RecordTo(sceneCtx, view)
}

// ensureTransitionResources creates the transition pass and capture targets
// on first use and keeps the captures sized to the surface.
func (m *Manager) ensureTransitionResources() {
	if m.pass == nil {
		pass, err := NewTransitionPass(m.gpu)
		if err != nil {
			panic("scene: create transition pass: " + err.Error())
		}
		m.pass = pass
	}
	var err error
	if m.captureA == nil {
		m.captureA, err = graph.NewRenderTarget(m.gpu, captureALabel)
		if err != nil {
			panic("scene: create capture target A: " + err.Error())
		}
	}
	if m.captureB == nil {
		m.captureB, err = graph.NewRenderTarget(m.gpu, captureBLabel)
		if err != nil {
			panic("scene: create capture target B: " + err.Error())
		}
	}
	if err := m.captureA.EnsureSize(m.gpu, captureALabel); err != nil {
		panic("scene: resize capture target A: " + err.Error())
	}
	if err := m.captureB.EnsureSize(m.gpu, captureBLabel); err != nil {
		panic("scene: resize capture target B: " + err.Error())
	}
}

// Release frees the manager's GPU resources. Scenes own their graphs and
// release them separately.
func (m *Manager) Release() {
	if m.pass != nil {
		m.pass.Release()
		m.pass = nil
	}
	if m.captureA != nil {
		m.captureA.Release()
		m.captureA = nil
	}
	if m.captureB != nil {
		m.captureB.Release()
		m.captureB = nil
	}
}
