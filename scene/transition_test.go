package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xandwr/hoplite"
)

func TestEasingApply(t *testing.T) {
	cases := []struct {
		name   string
		easing Easing
		in     float32
		want   float32
	}{
		{"linear zero", Linear, 0, 0},
		{"linear mid", Linear, 0.5, 0.5},
		{"linear one", Linear, 1, 1},
		{"linear clamps low", Linear, -1, 0},
		{"linear clamps high", Linear, 2, 1},
		{"ease in quarter", EaseIn, 0.25, 0.0625},
		{"ease in mid", EaseIn, 0.5, 0.25},
		{"ease in three quarters", EaseIn, 0.75, 0.5625},
		{"ease out quarter", EaseOut, 0.25, 0.4375},
		{"ease out mid", EaseOut, 0.5, 0.75},
		{"ease out three quarters", EaseOut, 0.75, 0.9375},
		{"ease in out quarter", EaseInOut, 0.25, 0.125},
		{"ease in out mid", EaseInOut, 0.5, 0.5},
		{"ease in out three quarters", EaseInOut, 0.75, 0.875},
		{"ease in out clamps high", EaseInOut, 1.5, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.easing.Apply(tc.in), 1e-6)
		})
	}
}

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut} {
		assert.InDelta(t, 0, e.Apply(0), 1e-6)
		assert.InDelta(t, 1, e.Apply(1), 1e-6)
	}
}

func TestTransitionConstructors(t *testing.T) {
	assert.Equal(t, KindInstant, Instant().Kind)
	assert.Equal(t, float32(0), Instant().Duration)

	fade := FadeToBlack(2)
	assert.Equal(t, KindFadeToColor, fade.Kind)
	assert.Equal(t, hoplite.Black, fade.Color)
	assert.Equal(t, float32(2), fade.Duration)
	assert.Equal(t, EaseInOut, fade.Easing)

	assert.Equal(t, hoplite.White, FadeToWhite(1).Color)
	assert.Equal(t, hoplite.Red, FadeToColor(hoplite.Red, 1).Color)

	cross := Crossfade(1.5)
	assert.Equal(t, KindCrossfade, cross.Kind)
	assert.Equal(t, EaseInOut, cross.Easing)
}

func TestTransitionBuildersReturnCopies(t *testing.T) {
	base := FadeToBlack(2)
	modified := base.WithEasing(Linear).WithDuration(4)

	assert.Equal(t, EaseInOut, base.Easing)
	assert.Equal(t, float32(2), base.Duration)
	assert.Equal(t, Linear, modified.Easing)
	assert.Equal(t, float32(4), modified.Duration)
}

func TestInstantCompletesImmediately(t *testing.T) {
	a := newActiveTransition(Instant(), "a", "b", 10)

	assert.Equal(t, Midpoint, a.Phase)
	assert.True(t, a.Update(10))
	assert.True(t, a.IsMidpoint())
}

func TestFadePhaseWalkthrough(t *testing.T) {
	a := newActiveTransition(FadeToBlack(2).WithEasing(Linear), "a", "b", 10)
	require.Equal(t, FadingOut, a.Phase)

	assert.False(t, a.Update(10.5))
	assert.Equal(t, FadingOut, a.Phase)
	assert.InDelta(t, 0.5, a.Progress, 1e-6)
	sceneA, overlay := a.FadeAlpha()
	assert.InDelta(t, 0.5, sceneA, 1e-6)
	assert.InDelta(t, 0.5, overlay, 1e-6)

	assert.False(t, a.Update(11))
	assert.Equal(t, Midpoint, a.Phase)
	sceneA, overlay = a.FadeAlpha()
	assert.InDelta(t, 0, sceneA, 1e-6)
	assert.InDelta(t, 1, overlay, 1e-6)

	// The midpoint holds for one update so the swap lands on a covered
	// screen.
	assert.False(t, a.Update(11))
	assert.Equal(t, FadingIn, a.Phase)
	assert.InDelta(t, 0, a.Progress, 1e-6)

	assert.False(t, a.Update(11.5))
	assert.InDelta(t, 0.5, a.Progress, 1e-6)
	sceneA, overlay = a.FadeAlpha()
	assert.InDelta(t, 0.5, sceneA, 1e-6)
	assert.InDelta(t, 0.5, overlay, 1e-6)

	assert.True(t, a.Update(12))
	assert.InDelta(t, 1, a.Progress, 1e-6)
}

func TestZeroDurationFadeStillPassesMidpoint(t *testing.T) {
	a := newActiveTransition(FadeToBlack(0), "a", "b", 0)

	assert.False(t, a.Update(0))
	assert.Equal(t, Midpoint, a.Phase)
	assert.False(t, a.Update(0))
	assert.Equal(t, FadingIn, a.Phase)
	assert.True(t, a.Update(0))
}

func TestCrossfadeWalkthrough(t *testing.T) {
	a := newActiveTransition(Crossfade(1).WithEasing(Linear), "a", "b", 5)
	require.Equal(t, Crossfading, a.Phase)
	assert.True(t, a.IsCrossfade())

	assert.False(t, a.Update(5.5))
	assert.InDelta(t, 0.5, a.CrossfadeBlend(), 1e-6)

	// Crossfades show the rendered scenes at full strength with no color
	// overlay.
	sceneA, overlay := a.FadeAlpha()
	assert.InDelta(t, 1, sceneA, 1e-6)
	assert.InDelta(t, 0, overlay, 1e-6)

	assert.True(t, a.Update(6))
	assert.InDelta(t, 1, a.CrossfadeBlend(), 1e-6)
}

func TestFadeColor(t *testing.T) {
	a := newActiveTransition(FadeToColor(hoplite.Red, 1), "a", "b", 0)
	assert.Equal(t, hoplite.Red, a.FadeColor())
}
