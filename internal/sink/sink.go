// Package sink implements the Virtual Pad Sink: a writer that
// emits synthetic gamepad events as a new kernel-visible device via uinput,
// and surfaces force-feedback commands the kernel routes back to it.
package sink

import (
	"context"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
)

// Sink is the virtual pad's write/close/rumble-read surface. The kernel
// uinput implementation lives in sink_linux.go; tests use an in-process
// fake (fake.go).
type Sink interface {
	// Emit writes a single synthetic event for c.
	Emit(ctx context.Context, c control.Control, v control.Value) error

	// RumbleEvents returns a channel of force-feedback commands the kernel
	// sent to this device. Closed when the sink is closed.
	RumbleEvents() <-chan rumble.Command

	// Close destroys the kernel object.
	Close() error
}

// buttonCode, axisCode and triggerCode (codes.go) map the control enum
// to the Linux evdev wire codes, following the xpad-compatible layout
// this uinput setup advertises (BTN_SOUTH.. / ABS_X..).
