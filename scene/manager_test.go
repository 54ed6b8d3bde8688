package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneHooks struct {
	enters int
	exits  int
}

func hookedScene(id string, h *sceneHooks) *Scene {
	s := NewScene(id)
	s.OnEnter = func() { h.enters++ }
	s.OnExit = func() { h.exits++ }
	return s
}

func TestSetActiveRunsEnter(t *testing.T) {
	m := NewManager(nil)
	var a sceneHooks
	m.Register(hookedScene("menu", &a))

	m.SetActive("menu")

	assert.Equal(t, "menu", m.ActiveID())
	assert.Equal(t, 1, a.enters)
	assert.Equal(t, 0, a.exits)
}

func TestSetActiveUnknownIgnored(t *testing.T) {
	m := NewManager(nil)
	var a sceneHooks
	m.Register(hookedScene("menu", &a))
	m.SetActive("menu")

	m.SetActive("missing")

	assert.Equal(t, "menu", m.ActiveID())
	assert.Equal(t, 1, a.enters)
}

func TestSwitchToUnknownIgnored(t *testing.T) {
	m := NewManager(nil)
	var a sceneHooks
	m.Register(hookedScene("menu", &a))
	m.SetActive("menu")

	m.SwitchTo("missing")

	assert.False(t, m.Update(1))
	assert.Equal(t, "menu", m.ActiveID())
	assert.Equal(t, 0, a.exits)
}

func TestSwitchToActiveSceneNoop(t *testing.T) {
	m := NewManager(nil)
	var a sceneHooks
	m.Register(hookedScene("menu", &a))
	m.SetActive("menu")

	m.SwitchTo("menu")

	assert.False(t, m.Update(1))
	assert.False(t, m.IsTransitioning())
	assert.Equal(t, 1, a.enters)
	assert.Equal(t, 0, a.exits)
}

func TestSwitchDeferredToUpdate(t *testing.T) {
	m := NewManager(nil)
	var a, b sceneHooks
	m.Register(hookedScene("a", &a))
	m.Register(hookedScene("b", &b))
	m.SetActive("a")

	m.SwitchTo("b")

	// Nothing happens until the next update tick.
	assert.Equal(t, "a", m.ActiveID())
	assert.False(t, m.IsTransitioning())
	assert.Equal(t, 0, a.exits)
	assert.Equal(t, 0, b.enters)
}

func TestInstantSwitch(t *testing.T) {
	m := NewManager(nil)
	var a, b sceneHooks
	m.Register(hookedScene("a", &a))
	m.Register(hookedScene("b", &b))
	m.SetActive("a")

	m.SwitchTo("b")

	assert.True(t, m.Update(1))
	assert.Equal(t, "b", m.ActiveID())
	assert.False(t, m.IsTransitioning())
	assert.Equal(t, 1, a.exits)
	assert.Equal(t, 1, b.enters)
}

func TestFadeSwapsAtMidpoint(t *testing.T) {
	m := NewManager(nil)
	var a, b sceneHooks
	m.Register(hookedScene("a", &a))
	m.Register(hookedScene("b", &b))
	m.SetActive("a")

	m.SwitchToWith("b", FadeToBlack(2).WithEasing(Linear))

	// First update takes the pending switch and starts fading out.
	assert.False(t, m.Update(10))
	assert.True(t, m.IsTransitioning())
	assert.Equal(t, "a", m.ActiveID())
	assert.Equal(t, 1, a.exits)
	assert.Equal(t, 0, b.enters)

	assert.False(t, m.Update(10.5))
	assert.Equal(t, "a", m.ActiveID())

	// The midpoint swaps the scenes behind a fully opaque overlay.
	assert.True(t, m.Update(11))
	assert.Equal(t, "b", m.ActiveID())
	assert.Equal(t, 1, b.enters)
	assert.True(t, m.IsTransitioning())

	assert.False(t, m.Update(11.2))
	assert.False(t, m.Update(11.5))
	assert.False(t, m.Update(12))
	assert.False(t, m.IsTransitioning())

	assert.Equal(t, 1, a.exits)
	assert.Equal(t, 1, b.enters)
}

func TestCrossfadeSwapsAtStart(t *testing.T) {
	m := NewManager(nil)
	var a, b sceneHooks
	m.Register(hookedScene("a", &a))
	m.Register(hookedScene("b", &b))
	m.SetActive("a")

	m.SwitchToWith("b", Crossfade(1))

	// The incoming scene becomes active on the first update so its logic
	// runs while both scenes are still visible.
	assert.True(t, m.Update(5))
	assert.Equal(t, "b", m.ActiveID())
	assert.Equal(t, 1, a.exits)
	assert.Equal(t, 1, b.enters)
	assert.True(t, m.IsTransitioning())

	assert.False(t, m.Update(5.5))
	assert.False(t, m.Update(6))
	assert.False(t, m.IsTransitioning())
	assert.Equal(t, 1, b.enters)
}

func TestSwitchDuringTransitionStaysPending(t *testing.T) {
	m := NewManager(nil)
	var a, b, c sceneHooks
	m.Register(hookedScene("a", &a))
	m.Register(hookedScene("b", &b))
	m.Register(hookedScene("c", &c))
	m.SetActive("a")

	m.SwitchToWith("b", FadeToBlack(2).WithEasing(Linear))
	require.False(t, m.Update(0))

	// Requested mid-fade; must wait for the fade to finish.
	m.SwitchTo("c")

	assert.True(t, m.Update(1))
	assert.Equal(t, "b", m.ActiveID())
	assert.Equal(t, 0, c.enters)

	assert.False(t, m.Update(1.2))
	assert.False(t, m.Update(2))
	require.False(t, m.IsTransitioning())
	assert.Equal(t, "b", m.ActiveID())
	assert.Equal(t, 0, c.enters)

	// The queued switch starts on the next tick.
	assert.True(t, m.Update(2.1))
	assert.Equal(t, "c", m.ActiveID())
	assert.Equal(t, 1, b.exits)
	assert.Equal(t, 1, c.enters)
}

func TestRunFrameAppliesSwitchRequest(t *testing.T) {
	m := NewManager(nil)
	var a, b sceneHooks
	sa := hookedScene("a", &a)
	sa.Frame = func(f *Frame) {
		f.SwitchToWith("b", Instant())
	}
	m.Register(sa)
	m.Register(hookedScene("b", &b))
	m.SetActive("a")

	m.RunFrame(nil, 1, 0.016)

	// Collected after the frame, applied on the next update.
	assert.Equal(t, "a", m.ActiveID())
	assert.True(t, m.Update(1))
	assert.Equal(t, "b", m.ActiveID())
}

func TestRunFrameLastRequestWins(t *testing.T) {
	m := NewManager(nil)
	sa := NewScene("a")
	sa.Frame = func(f *Frame) {
		f.SwitchTo("b")
		f.SwitchTo("c")
	}
	m.Register(sa)
	m.Register(NewScene("b"))
	m.Register(NewScene("c"))
	m.SetActive("a")

	m.RunFrame(nil, 0, 0.016)
	m.Update(0)

	assert.Equal(t, "c", m.ActiveID())
}

func TestRunFrameMutatesSceneCamera(t *testing.T) {
	m := NewManager(nil)
	s := NewScene("a")
	s.Frame = func(f *Frame) {
		f.Camera.Position = mgl32.Vec3{0, 5, 0}
	}
	m.Register(s)
	m.SetActive("a")

	m.RunFrame(nil, 0, 0.016)

	assert.Equal(t, mgl32.Vec3{0, 5, 0}, s.Camera.Position)
}

func TestRunFrameWithoutActiveScene(t *testing.T) {
	m := NewManager(nil)
	m.RunFrame(nil, 0, 0.016)
	assert.False(t, m.Update(0))
}

func TestActiveCamera(t *testing.T) {
	m := NewManager(nil)
	assert.Nil(t, m.ActiveCamera())

	s := NewScene("a")
	m.Register(s)
	m.SetActive("a")

	cam := m.ActiveCamera()
	require.NotNil(t, cam)
	assert.Same(t, &s.Camera, cam)
}

func TestRegisterReplaces(t *testing.T) {
	m := NewManager(nil)
	first := NewScene("a")
	second := NewScene("a")
	m.Register(first)
	m.Register(second)
	m.SetActive("a")

	assert.Same(t, second, m.ActiveScene())
}
