package sink

import (
	"context"
	"sync"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
)

// Fake is an in-process Sink used by tests.
type Fake struct {
	mu       sync.Mutex
	Emitted  []Emission
	rumbleCh chan rumble.Command
	closed   bool
}

type Emission struct {
	Control control.Control
	Value   control.Value
}

func NewFake() *Fake {
	return &Fake{rumbleCh: make(chan rumble.Command, 16)}
}

func (f *Fake) Emit(_ context.Context, c control.Control, v control.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Emitted = append(f.Emitted, Emission{Control: c, Value: v})
	return nil
}

func (f *Fake) RumbleEvents() <-chan rumble.Command { return f.rumbleCh }

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		close(f.rumbleCh)
		f.closed = true
	}
	return nil
}

// PushRumble simulates the kernel delivering a force-feedback command.
func (f *Fake) PushRumble(cmd rumble.Command) {
	f.rumbleCh <- cmd
}

// Last returns the most recent emitted value for c, and whether c was ever
// emitted.
func (f *Fake) Last(c control.Control) (control.Value, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Emitted) - 1; i >= 0; i-- {
		if f.Emitted[i].Control == c {
			return f.Emitted[i].Value, true
		}
	}
	return control.Neutral, false
}
