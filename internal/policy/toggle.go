package policy

import (
	"sync"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
)

// Toggle forwards one role's shadow verbatim until a Mode-button rising
// edge on Assist swaps which role is Active. It is the one
// policy with internal state, guarded by a mutex even though the
// Mux Engine is the sole caller, so a Policy value can be shared safely if
// a future caller needs to read Active() concurrently (e.g. status
// reporting).
type Toggle struct {
	mu             sync.Mutex
	active         control.Role
	assistPrevMode bool
}

// NewToggle constructs a Toggle policy with Active initialized to Primary.
func NewToggle() *Toggle {
	return &Toggle{active: control.Primary}
}

func (t *Toggle) Name() string { return "toggle" }

func (t *Toggle) Active() control.Role {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Toggle) activeMirror(primary, assist *shadow.Mirror) *shadow.Mirror {
	if t.Active() == control.Primary {
		return primary
	}
	return assist
}

func (t *Toggle) MergeButton(primary, assist *shadow.Mirror, b control.Button) control.Value {
	v, _ := t.activeMirror(primary, assist).Get(control.ButtonControl(b))
	return v
}

func (t *Toggle) MergeAxis(primary, assist *shadow.Mirror, a control.Axis) control.Value {
	v, _ := t.activeMirror(primary, assist).Get(control.AxisControl(a))
	return v
}

func (t *Toggle) MergeTrigger(primary, assist *shadow.Mirror, tr control.Trigger) control.Value {
	v, _ := t.activeMirror(primary, assist).Get(control.TriggerControl(tr))
	return v
}

// OnEvent detects a false->true edge on Button(Mode) of the Assist shadow
// and swaps Active. The caller (Mux Engine) is responsible for the
// subsequent full resync emission; OnEvent only
// reports that a swap happened.
func (t *Toggle) OnEvent(role control.Role, c control.Control, primary, assist *shadow.Mirror) bool {
	if role != control.Assist || c.Kind() != control.KindButton || c.Button() != control.Mode {
		return false
	}

	v, _ := assist.Get(c)
	t.mu.Lock()
	defer t.mu.Unlock()

	rising := v.Pressed && !t.assistPrevMode
	t.assistPrevMode = v.Pressed
	if !rising {
		return false
	}

	if t.active == control.Primary {
		t.active = control.Assist
	} else {
		t.active = control.Primary
	}
	return true
}
