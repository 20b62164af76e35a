package policy

import (
	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
)

// Priority is the default policy: Assist overrides when active, else
// Primary. Buttons are special-cased: an assist button press preempts
// Primary, and releasing it returns control immediately rather than
// latching.
type Priority struct{}

func (Priority) Name() string { return "priority" }

func (Priority) MergeButton(primary, assist *shadow.Mirror, b control.Button) control.Value {
	a := buttonValue(assist, b)
	if a.Pressed {
		return a
	}
	return buttonValue(primary, b)
}

func (Priority) MergeAxis(primary, assist *shadow.Mirror, a control.Axis) control.Value {
	if activeAxis(assist, a) {
		return axisValue(assist, a)
	}
	return axisValue(primary, a)
}

func (Priority) MergeTrigger(primary, assist *shadow.Mirror, t control.Trigger) control.Value {
	p := triggerValue(primary, t)
	a := triggerValue(assist, t)
	if a.Scalar >= p.Scalar {
		return a
	}
	return p
}

// OnEvent: Priority carries no internal state, so it never swaps.
func (Priority) OnEvent(control.Role, control.Control, *shadow.Mirror, *shadow.Mirror) bool {
	return false
}
