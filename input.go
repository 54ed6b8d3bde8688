package hoplite

import "github.com/go-gl/mathgl/mgl32"

// Key identifies a keyboard key. The values mirror GLFW key codes so the
// window layer can feed events through without a translation table.
type Key int

// Keys the engine's controllers and demos reference. The set follows GLFW's
// key code assignments; any other GLFW code can be cast to Key directly.
const (
	KeySpace     Key = 32
	Key0         Key = 48
	Key1         Key = 49
	Key2         Key = 50
	Key3         Key = 51
	KeyA         Key = 65
	KeyD         Key = 68
	KeyS         Key = 83
	KeyW         Key = 87
	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyTab       Key = 258
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyF1        Key = 290
	KeyShiftLeft Key = 340
)

// MouseButton identifies a mouse button, numbered as GLFW numbers them.
type MouseButton int

const (
	MouseLeft   MouseButton = 0
	MouseRight  MouseButton = 1
	MouseMiddle MouseButton = 2
)

// Input tracks keyboard and mouse state across frames.
//
// Three categories of state are kept for keys and buttons:
//   - Down: currently held, persists until released
//   - Pressed: transitioned to down this frame, cleared each frame
//   - Released: transitioned to up this frame, cleared each frame
//
// Frame Lifecycle:
// Call BeginFrame at the start of each frame, feed events from the window
// layer (KeyEvent, MouseButtonEvent, CursorMoved, Scroll, RawMouseMotion),
// then query state during update and render.
//
// Input is not safe for concurrent use; it belongs to the thread that owns
// the window.
type Input struct {
	keysDown     map[Key]bool
	keysPressed  map[Key]bool
	keysReleased map[Key]bool

	buttonsDown     map[MouseButton]bool
	buttonsPressed  map[MouseButton]bool
	buttonsReleased map[MouseButton]bool

	mousePosition mgl32.Vec2
	mouseDelta    mgl32.Vec2
	scrollDelta   mgl32.Vec2
}

// NewInput creates an input tracker with all state cleared.
func NewInput() *Input {
	return &Input{
		keysDown:        make(map[Key]bool),
		keysPressed:     make(map[Key]bool),
		keysReleased:    make(map[Key]bool),
		buttonsDown:     make(map[MouseButton]bool),
		buttonsPressed:  make(map[MouseButton]bool),
		buttonsReleased: make(map[MouseButton]bool),
	}
}

// BeginFrame resets per-frame state. Call it before processing window events
// each frame. Pressed and released sets and the movement and scroll deltas
// are cleared; down state is preserved.
func (in *Input) BeginFrame() {
	clear(in.keysPressed)
	clear(in.keysReleased)
	clear(in.buttonsPressed)
	clear(in.buttonsReleased)
	in.mouseDelta = mgl32.Vec2{}
	in.scrollDelta = mgl32.Vec2{}
}

// KeyEvent records a key state change. Repeat events for held keys do not
// re-trigger the pressed state.
func (in *Input) KeyEvent(key Key, down bool) {
	if down {
		if !in.keysDown[key] {
			in.keysPressed[key] = true
		}
		in.keysDown[key] = true
	} else {
		delete(in.keysDown, key)
		in.keysReleased[key] = true
	}
}

// MouseButtonEvent records a mouse button state change.
func (in *Input) MouseButtonEvent(button MouseButton, down bool) {
	if down {
		if !in.buttonsDown[button] {
			in.buttonsPressed[button] = true
		}
		in.buttonsDown[button] = true
	} else {
		delete(in.buttonsDown, button)
		in.buttonsReleased[button] = true
	}
}

// CursorMoved records a new cursor position in window pixels (origin at the
// top-left) and accumulates the movement delta.
func (in *Input) CursorMoved(x, y float32) {
	pos := mgl32.Vec2{x, y}
	in.mouseDelta = in.mouseDelta.Add(pos.Sub(in.mousePosition))
	in.mousePosition = pos
}

// Scroll accumulates scroll wheel movement in lines.
func (in *Input) Scroll(dx, dy float32) {
	in.scrollDelta = in.scrollDelta.Add(mgl32.Vec2{dx, dy})
}

// RawMouseMotion accumulates raw mouse movement independent of the cursor
// position. Needed for FPS-style look when the cursor is grabbed, since
// CursorMoved stops reporting at window boundaries.
func (in *Input) RawMouseMotion(dx, dy float32) {
	in.mouseDelta = in.mouseDelta.Add(mgl32.Vec2{dx, dy})
}

// KeyDown reports whether the key is currently held. True every frame while
// held, suitable for continuous actions like movement.
func (in *Input) KeyDown(key Key) bool { return in.keysDown[key] }

// KeyPressed reports whether the key transitioned to down this frame.
// Suitable for discrete actions like triggering a scene switch.
func (in *Input) KeyPressed(key Key) bool { return in.keysPressed[key] }

// KeyReleased reports whether the key transitioned to up this frame.
func (in *Input) KeyReleased(key Key) bool { return in.keysReleased[key] }

// MouseDown reports whether the button is currently held.
func (in *Input) MouseDown(button MouseButton) bool { return in.buttonsDown[button] }

// MousePressed reports whether the button transitioned to down this frame.
func (in *Input) MousePressed(button MouseButton) bool { return in.buttonsPressed[button] }

// MouseReleased reports whether the button transitioned to up this frame.
func (in *Input) MouseReleased(button MouseButton) bool { return in.buttonsReleased[button] }

// MousePosition returns the cursor position in window pixels from the
// top-left corner.
func (in *Input) MousePosition() mgl32.Vec2 { return in.mousePosition }

// MouseDelta returns the mouse movement accumulated since BeginFrame.
// Positive X is rightward, positive Y is downward.
func (in *Input) MouseDelta() mgl32.Vec2 { return in.mouseDelta }

// ScrollDelta returns the scroll movement accumulated since BeginFrame,
// in lines.
func (in *Input) ScrollDelta() mgl32.Vec2 { return in.scrollDelta }
