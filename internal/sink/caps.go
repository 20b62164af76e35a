package sink

import "github.com/ctrlassist/ctrlassist/internal/control"

// Capabilities is the set of controls a sink advertises to the kernel. The
// Mux Engine builds this as the union of the controls supported by Primary
// and Assist before constructing the sink.
type Capabilities struct {
	Buttons  map[control.Button]bool
	Axes     map[control.Axis]bool
	Triggers map[control.Trigger]bool
}

// FullCapabilities advertises the entire standard layout — the default when
// per-physical capability probing isn't available.
func FullCapabilities() Capabilities {
	c := Capabilities{
		Buttons:  make(map[control.Button]bool),
		Axes:     make(map[control.Axis]bool),
		Triggers: make(map[control.Trigger]bool),
	}
	for _, b := range control.AllButtons() {
		c.Buttons[b] = true
	}
	for _, a := range control.AllAxes() {
		c.Axes[a] = true
	}
	for _, t := range control.AllTriggers() {
		c.Triggers[t] = true
	}
	return c
}

// Union returns the union of two capability sets.
func Union(a, b Capabilities) Capabilities {
	out := Capabilities{
		Buttons:  make(map[control.Button]bool),
		Axes:     make(map[control.Axis]bool),
		Triggers: make(map[control.Trigger]bool),
	}
	for k := range a.Buttons {
		out.Buttons[k] = true
	}
	for k := range b.Buttons {
		out.Buttons[k] = true
	}
	for k := range a.Axes {
		out.Axes[k] = true
	}
	for k := range b.Axes {
		out.Axes[k] = true
	}
	for k := range a.Triggers {
		out.Triggers[k] = true
	}
	for k := range b.Triggers {
		out.Triggers[k] = true
	}
	return out
}

// Controls lists every advertised control, buttons then axes then triggers
// — the order the initial neutral emission and toggle resync use.
func (c Capabilities) Controls() []control.Control {
	out := make([]control.Control, 0, len(c.Buttons)+len(c.Axes)+len(c.Triggers))
	for _, b := range control.AllButtons() {
		if c.Buttons[b] {
			out = append(out, control.ButtonControl(b))
		}
	}
	for _, a := range control.AllAxes() {
		if c.Axes[a] {
			out = append(out, control.AxisControl(a))
		}
	}
	for _, t := range control.AllTriggers() {
		if c.Triggers[t] {
			out = append(out, control.TriggerControl(t))
		}
	}
	return out
}
