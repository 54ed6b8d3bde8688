// Package scene manages named scenes and animated transitions between them.
//
// A Manager owns a table of scenes, runs the active scene's per-frame logic,
// and drives fade and crossfade transitions by capturing scene output to
// off-screen targets and compositing them with a TransitionPass.
package scene

import (
	"github.com/xandwr/hoplite"
)

// Easing shapes the progress curve of a transition.
type Easing int

const (
	// Linear progresses at constant speed.
	Linear Easing = iota
	// EaseIn starts slow and accelerates.
	EaseIn
	// EaseOut starts fast and decelerates.
	EaseOut
	// EaseInOut accelerates then decelerates.
	EaseInOut
)

// Apply maps raw progress through the easing curve. Input is clamped to
// [0, 1] first, so output stays in [0, 1].
func (e Easing) Apply(t float32) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	default:
		return t
	}
}

// TransitionKind selects the visual style of a scene switch.
type TransitionKind int

const (
	// KindInstant switches with no animation.
	KindInstant TransitionKind = iota
	// KindFadeToColor fades the old scene out to a solid color, switches,
	// then fades the new scene in.
	KindFadeToColor
	// KindCrossfade blends directly from the old scene to the new one.
	KindCrossfade
)

// Transition describes how a scene switch should look. Values are immutable
// once handed to the manager; WithEasing and WithDuration return modified
// copies.
type Transition struct {
	Kind     TransitionKind
	Color    hoplite.Color // overlay color, used by KindFadeToColor
	Duration float32       // total duration in seconds
	Easing   Easing
}

// Instant returns an immediate switch with no animation.
func Instant() Transition {
	return Transition{Kind: KindInstant}
}

// FadeToBlack fades out to black and back in over the given duration.
func FadeToBlack(duration float32) Transition {
	return FadeToColor(hoplite.Black, duration)
}

// FadeToWhite fades out to white and back in over the given duration.
func FadeToWhite(duration float32) Transition {
	return FadeToColor(hoplite.White, duration)
}

// FadeToColor fades out to the given color and back in over the given
// duration. Each fade half takes duration/2.
func FadeToColor(c hoplite.Color, duration float32) Transition {
	return Transition{Kind: KindFadeToColor, Color: c, Duration: duration, Easing: EaseInOut}
}

// Crossfade blends from the old scene to the new one over the given
// duration.
func Crossfade(duration float32) Transition {
	return Transition{Kind: KindCrossfade, Duration: duration, Easing: EaseInOut}
}

// WithEasing returns a copy with a different easing curve.
func (t Transition) WithEasing(e Easing) Transition {
	t.Easing = e
	return t
}

// WithDuration returns a copy with a different duration.
func (t Transition) WithDuration(d float32) Transition {
	t.Duration = d
	return t
}

// Phase identifies where an in-flight transition currently is.
type Phase int

const (
	// FadingOut is the first half of a fade: the old scene darkens toward
	// the overlay color.
	FadingOut Phase = iota
	// Midpoint is the instant the scenes swap. Fade transitions pass
	// through it; instant transitions complete in it.
	Midpoint
	// FadingIn is the second half of a fade: the new scene emerges from
	// the overlay color.
	FadingIn
	// Crossfading blends both scenes for the whole duration.
	Crossfading
)

// ActiveTransition tracks one in-flight transition. The manager creates one
// when a pending switch is taken and discards it on completion; at most one
// exists at a time.
type ActiveTransition struct {
	// Transition is the immutable description this run was started from.
	Transition Transition

	// Phase is the current phase of the state machine.
	Phase Phase

	// Progress is the eased progress within the current phase, in [0, 1].
	Progress float32

	// StartTime is the timestamp Update first measures elapsed time from.
	StartTime float32

	// Source and Target are the scene ids being switched between.
	Source string
	Target string
}

func newActiveTransition(t Transition, source, target string, now float32) *ActiveTransition {
	phase := FadingOut
	switch t.Kind {
	case KindInstant:
		phase = Midpoint
	case KindCrossfade:
		phase = Crossfading
	}
	return &ActiveTransition{
		Transition: t,
		Phase:      phase,
		StartTime:  now,
		Source:     source,
		Target:     target,
	}
}

// Update advances the state machine to the given timestamp and reports
// whether the transition has completed.
//
// Fades spend duration/2 in FadingOut, pass through Midpoint for exactly one
// update so the manager can swap scenes, then spend duration/2 in FadingIn.
// Crossfades run a single Crossfading phase for the full duration. Instant
// transitions complete on their first update.
func (a *ActiveTransition) Update(now float32) bool {
	elapsed := now - a.StartTime

	switch a.Transition.Kind {
	case KindInstant:
		a.Phase = Midpoint
		return true

	case KindFadeToColor:
		half := a.Transition.Duration / 2
		switch a.Phase {
		case FadingOut:
			raw := phaseProgress(elapsed, half)
			a.Progress = a.Transition.Easing.Apply(raw)
			if raw >= 1 {
				a.Phase = Midpoint
			}
			return false
		case Midpoint:
			// Held for one update so the swap happens on a fully
			// covered screen.
			a.Phase = FadingIn
			a.Progress = 0
			return false
		case FadingIn:
			raw := phaseProgress(elapsed-half, half)
			a.Progress = a.Transition.Easing.Apply(raw)
			return raw >= 1
		}
		return false

	case KindCrossfade:
		raw := phaseProgress(elapsed, a.Transition.Duration)
		a.Progress = a.Transition.Easing.Apply(raw)
		return raw >= 1
	}
	return false
}

// phaseProgress maps elapsed time over a phase length to [0, 1], treating a
// non-positive length as already finished.
func phaseProgress(elapsed, length float32) float32 {
	if length <= 0 {
		return 1
	}
	raw := elapsed / length
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// FadeAlpha returns the visibility of the rendered scene and of the color
// overlay for the current fade phase. During FadingOut the overlay grows
// with progress, at Midpoint it covers everything, and during FadingIn it
// recedes. Crossfades show the scene fully with no overlay.
func (a *ActiveTransition) FadeAlpha() (scene, overlay float32) {
	switch a.Phase {
	case FadingOut:
		return 1 - a.Progress, a.Progress
	case Midpoint:
		return 0, 1
	case FadingIn:
		return a.Progress, 1 - a.Progress
	default:
		return 1, 0
	}
}

// CrossfadeBlend returns the blend factor between the two scenes: 0 shows
// only the old scene, 1 only the new one.
func (a *ActiveTransition) CrossfadeBlend() float32 {
	return a.Progress
}

// IsMidpoint reports whether the transition is at the scene-swap point.
func (a *ActiveTransition) IsMidpoint() bool {
	return a.Phase == Midpoint
}

// IsCrossfade reports whether this transition blends two live scenes.
func (a *ActiveTransition) IsCrossfade() bool {
	return a.Transition.Kind == KindCrossfade
}

// FadeColor returns the overlay color for fade transitions.
func (a *ActiveTransition) FadeColor() hoplite.Color {
	return a.Transition.Color
}
