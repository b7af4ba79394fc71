package movement

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Action is a logical input the controller understands.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionJump
	ActionCount // Must be last - used for array sizing
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Input is the per-tick view of the input collaborator.
type Input interface {
	Pressed(a Action) bool
	JustPressed(a Action) bool
	JustReleased(a Action) bool
}

// AnalogInput is implemented by inputs that also carry a stick. When ok is
// true the stick replaces the digital direction actions for this tick.
type AnalogInput interface {
	Axis() (axis cp.Vector, ok bool)
}

// ActionState represents the temporal state of an action.
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// Actions is a complete input frame.
type Actions struct {
	States [ActionCount]ActionState
	Stick  cp.Vector
	// StickActive marks Stick as outside the dead zone this frame.
	StickActive bool
}

func (a Actions) state(act Action) ActionState {
	if act < 0 || act >= ActionCount {
		return ActionState{}
	}
	return a.States[act]
}

func (a Actions) Pressed(act Action) bool      { return a.state(act).Pressed }
func (a Actions) JustPressed(act Action) bool  { return a.state(act).JustPressed }
func (a Actions) JustReleased(act Action) bool { return a.state(act).JustReleased }

func (a Actions) Axis() (cp.Vector, bool) {
	return a.Stick, a.StickActive
}

// Frame is the raw held/not-held state of every action, as polled from a
// device or produced by a script.
type Frame [ActionCount]bool

// Tracker derives just-pressed and just-released edges by comparing the
// current frame with the previous one.
type Tracker struct {
	previous Frame
	Deadzone float64
}

// Update records cur as the newest frame and returns the resulting actions.
func (t *Tracker) Update(cur Frame) Actions {
	var out Actions
	for i := range cur {
		out.States[i] = ActionState{
			Pressed:      cur[i],
			JustPressed:  cur[i] && !t.previous[i],
			JustReleased: !cur[i] && t.previous[i],
		}
	}
	t.previous = cur
	return out
}

// UpdateWithStick is Update plus an analog stick reading.
func (t *Tracker) UpdateWithStick(cur Frame, stick cp.Vector) Actions {
	out := t.Update(cur)
	if math.Abs(stick.X) > t.Deadzone || math.Abs(stick.Y) > t.Deadzone {
		out.Stick = stick
		out.StickActive = true
	}
	return out
}

// Reset forgets the previous frame so held actions report JustPressed again.
func (t *Tracker) Reset() {
	t.previous = Frame{}
}

// ReadAxis builds the raw direction for a tick. Digital directions each
// contribute ±1 and diagonals are left unnormalized.
func ReadAxis(in Input) cp.Vector {
	if in == nil {
		return cp.Vector{}
	}
	if analog, ok := in.(AnalogInput); ok {
		if axis, active := analog.Axis(); active {
			return axis
		}
	}
	var axis cp.Vector
	if in.Pressed(ActionUp) {
		axis.Y += 1
	}
	if in.Pressed(ActionDown) {
		axis.Y -= 1
	}
	if in.Pressed(ActionRight) {
		axis.X += 1
	}
	if in.Pressed(ActionLeft) {
		axis.X -= 1
	}
	return axis
}
