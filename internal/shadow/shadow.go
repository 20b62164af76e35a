// Package shadow implements the State Mirror: a per-role
// record of the last-known value for every control, with a seen-flag that
// models the input library's lazy initial-state reporting.
package shadow

import "github.com/ctrlassist/ctrlassist/internal/control"

type entry struct {
	value control.Value
	seen  bool
}

// Mirror is the shadow state for a single controller role. It is mutated
// only by the Mux Engine, so Mirror itself does no locking.
type Mirror struct {
	buttons  map[control.Button]entry
	axes     map[control.Axis]entry
	triggers map[control.Trigger]entry
	deadzone float64
}

// New constructs an empty Mirror with every seen-flag false, using deadzone
// for Active()'s axis/trigger activity test.
func New(deadzone float64) *Mirror {
	return &Mirror{
		buttons:  make(map[control.Button]entry),
		axes:     make(map[control.Axis]entry),
		triggers: make(map[control.Trigger]entry),
		deadzone: deadzone,
	}
}

// Update sets value and seen=true for c, returning the prior value (the
// zero Value with seen=false if this is the first update).
func (m *Mirror) Update(c control.Control, v control.Value) (prior control.Value, priorSeen bool) {
	switch c.Kind() {
	case control.KindButton:
		e := m.buttons[c.Button()]
		prior, priorSeen = e.value, e.seen
		m.buttons[c.Button()] = entry{value: v, seen: true}
	case control.KindAxis:
		e := m.axes[c.Axis()]
		prior, priorSeen = e.value, e.seen
		m.axes[c.Axis()] = entry{value: v, seen: true}
	case control.KindTrigger:
		e := m.triggers[c.Trigger()]
		prior, priorSeen = e.value, e.seen
		m.triggers[c.Trigger()] = entry{value: v, seen: true}
	}
	return prior, priorSeen
}

// Get returns the current (value, seen) for c. An unseen control reads as
// the neutral value with seen=false — callers that want the "treat unseen
// as neutral" policy semantics should just use the value and
// ignore seen, since control.Neutral already equals the zero Value.
func (m *Mirror) Get(c control.Control) (control.Value, bool) {
	switch c.Kind() {
	case control.KindButton:
		e := m.buttons[c.Button()]
		return e.value, e.seen
	case control.KindAxis:
		e := m.axes[c.Axis()]
		return e.value, e.seen
	case control.KindTrigger:
		e := m.triggers[c.Trigger()]
		return e.value, e.seen
	}
	return control.Neutral, false
}

// Active returns true iff c has been seen and, for axes/triggers, its value
// exceeds the deadzone (axes: |v| > deadzone; triggers: v > deadzone).
// Buttons are "active" iff pressed.
func (m *Mirror) Active(c control.Control) bool {
	v, seen := m.Get(c)
	if !seen {
		return false
	}
	switch c.Kind() {
	case control.KindButton:
		return v.Pressed
	case control.KindAxis:
		return abs(v.Scalar) > m.deadzone
	case control.KindTrigger:
		return v.Scalar > m.deadzone
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
