// Package policy implements the three Merge Policy strategies:
// Priority, Average and Toggle. Each is a pure function of the two shadows
// plus a control id, modeled behind the Policy interface as a swappable
// capability so the Mux Engine stays policy-agnostic.
package policy

import (
	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
)

// Policy merges a control's two shadow values into one virtual value. Axes
// and triggers have distinct rules from buttons, hence the split methods.
// OnEvent lets a stateful policy (only Toggle has state) observe every
// incoming event and report whether a full resync swap occurred.
type Policy interface {
	Name() string
	MergeButton(primary, assist *shadow.Mirror, b control.Button) control.Value
	MergeAxis(primary, assist *shadow.Mirror, a control.Axis) control.Value
	MergeTrigger(primary, assist *shadow.Mirror, t control.Trigger) control.Value
	OnEvent(role control.Role, c control.Control, primary, assist *shadow.Mirror) (swapped bool)
}

// Merge dispatches to the right Merge* method for c's kind.
func Merge(p Policy, primary, assist *shadow.Mirror, c control.Control) control.Value {
	switch c.Kind() {
	case control.KindButton:
		return p.MergeButton(primary, assist, c.Button())
	case control.KindAxis:
		return p.MergeAxis(primary, assist, c.Axis())
	case control.KindTrigger:
		return p.MergeTrigger(primary, assist, c.Trigger())
	}
	return control.Neutral
}

func axisValue(m *shadow.Mirror, a control.Axis) control.Value {
	v, _ := m.Get(control.AxisControl(a))
	return v
}

func triggerValue(m *shadow.Mirror, t control.Trigger) control.Value {
	v, _ := m.Get(control.TriggerControl(t))
	return v
}

func buttonValue(m *shadow.Mirror, b control.Button) control.Value {
	v, _ := m.Get(control.ButtonControl(b))
	return v
}

func activeAxis(m *shadow.Mirror, a control.Axis) bool {
	return m.Active(control.AxisControl(a))
}

func activeTrigger(m *shadow.Mirror, t control.Trigger) bool {
	return m.Active(control.TriggerControl(t))
}
