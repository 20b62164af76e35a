// Package control defines the tagged-union control identifier and value
// types shared by every other CtrlAssist package: shadows, policies, the
// mux engine, sources and the sink all speak in terms of Control and Value.
package control

import "fmt"

// Kind distinguishes the three control families. Triggers are kept distinct
// from axes because their merge rules differ (see policy package).
type Kind uint8

const (
	KindButton Kind = iota
	KindAxis
	KindTrigger
)

// Button enumerates the standard gamepad button layout.
type Button uint8

const (
	South Button = iota
	East
	West
	North
	L1
	R1
	L3
	R3
	Select
	Start
	Mode
	DpadUp
	DpadDown
	DpadLeft
	DpadRight
	buttonCount
)

// Axis enumerates the standard analog-stick axes.
type Axis uint8

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY
	axisCount
)

// Trigger enumerates the standard analog trigger axes.
type Trigger uint8

const (
	L2 Trigger = iota
	R2
	triggerCount
)

// Control is a tagged union over Button, Axis and Trigger. The zero value is
// Button(South); callers should always construct via ButtonControl,
// AxisControl or TriggerControl.
type Control struct {
	kind    Kind
	button  Button
	axis    Axis
	trigger Trigger
}

func ButtonControl(b Button) Control   { return Control{kind: KindButton, button: b} }
func AxisControl(a Axis) Control       { return Control{kind: KindAxis, axis: a} }
func TriggerControl(t Trigger) Control { return Control{kind: KindTrigger, trigger: t} }

func (c Control) Kind() Kind       { return c.kind }
func (c Control) Button() Button   { return c.button }
func (c Control) Axis() Axis       { return c.axis }
func (c Control) Trigger() Trigger { return c.trigger }

func (c Control) String() string {
	switch c.kind {
	case KindButton:
		return fmt.Sprintf("Button(%s)", c.button)
	case KindAxis:
		return fmt.Sprintf("Axis(%s)", c.axis)
	case KindTrigger:
		return fmt.Sprintf("Trigger(%s)", c.trigger)
	default:
		return "Control(?)"
	}
}

func (b Button) String() string {
	names := [...]string{"south", "east", "west", "north", "l1", "r1", "l3", "r3",
		"select", "start", "mode", "dpad-up", "dpad-down", "dpad-left", "dpad-right"}
	if int(b) < len(names) {
		return names[b]
	}
	return "unknown"
}

func (a Axis) String() string {
	names := [...]string{"left-x", "left-y", "right-x", "right-y"}
	if int(a) < len(names) {
		return names[a]
	}
	return "unknown"
}

func (t Trigger) String() string {
	names := [...]string{"l2", "r2"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// AllButtons, AllAxes and AllTriggers enumerate every control of their kind,
// used wherever a component needs to iterate the full layout (initial
// neutral emission, toggle resync, capability advertisement).
func AllButtons() []Button {
	out := make([]Button, buttonCount)
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

func AllAxes() []Axis {
	out := make([]Axis, axisCount)
	for i := range out {
		out[i] = Axis(i)
	}
	return out
}

func AllTriggers() []Trigger {
	out := make([]Trigger, triggerCount)
	for i := range out {
		out[i] = Trigger(i)
	}
	return out
}

// AllControls enumerates every control in the standard layout, buttons then
// axes then triggers.
func AllControls() []Control {
	out := make([]Control, 0, int(buttonCount)+int(axisCount)+int(triggerCount))
	for _, b := range AllButtons() {
		out = append(out, ButtonControl(b))
	}
	for _, a := range AllAxes() {
		out = append(out, AxisControl(a))
	}
	for _, t := range AllTriggers() {
		out = append(out, TriggerControl(t))
	}
	return out
}

// Role identifies which physical controller a shadow or event belongs to.
type Role uint8

const (
	Primary Role = iota
	Assist
)

func (r Role) String() string {
	if r == Primary {
		return "primary"
	}
	return "assist"
}

// Value is the value carried by a control: a bool for buttons, a signed
// scalar in [-1,1] for axes, an unsigned scalar in [0,1] for triggers. Only
// the field matching the Control's Kind is meaningful.
type Value struct {
	Pressed bool
	Scalar  float64
}

// Neutral is the at-rest value for any control kind: released for buttons,
// zero for axes and triggers.
var Neutral = Value{}

func BoolValue(pressed bool) Value  { return Value{Pressed: pressed} }
func ScalarValue(scalar float64) Value { return Value{Scalar: scalar} }
