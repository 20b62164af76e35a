// Package source implements the Gamepad Source: a reader of
// timestamped input events from a named device, plus a handle for sending
// rumble commands back. The real evdev-backed implementation lives in
// source_linux.go; bootstrap.go adds the optional raw-USB handshake for
// controllers that need it before their kernel node is fully featured.
package source

import (
	"context"
	"time"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/sink"
)

// Event is a single timestamped control update as read from a physical.
type Event struct {
	Control   control.Control
	Value     control.Value
	Timestamp time.Time
}

// Descriptor identifies a physical controller for discovery, identity and
// spoof-source resolution.
type Descriptor struct {
	Path                     string
	Name                     string
	Vendor, Product, Version uint16
	ButtonCount, AxisCount   int

	// Caps is the subset of the standard layout this physical actually
	// exposes, used by the CLI to build the sink's union capability set.
	// Zero value for sources that don't probe it (e.g. fakes in tests),
	// callers should fall back to sink.FullCapabilities() in that case.
	Caps sink.Capabilities
}

// Source is the Gamepad Source contract. Events is a lazy, finite-on-close
// sequence: it is closed when the device disconnects or Close is called.
// The source MUST report every state-changing event, including button
// releases.
type Source interface {
	Events() <-chan Event
	SendRumble(ctx context.Context, strong, weak uint16, durationMs uint32) error
	Identity() Descriptor
	Close() error
}

// MinButtons and MinAxes are the minimum control set a device must expose
// to be accepted at open time.
const (
	MinButtons = 1
	MinAxes    = 2
)
