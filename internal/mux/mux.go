// Package mux implements the Mux Engine: the central consumer
// that owns the event loop, drives the two State Mirrors, calls the Merge
// Policy and writes the Virtual Pad Sink, bridging rumble in the reverse
// direction. Concurrency uses goroutines + channels,
// a single context.Context for cancellation, managed by an
// golang.org/x/sync/errgroup.Group the way viamrobotics-rdk's go.mod
// already pulls in for exactly this shape of fan-in/fan-out lifecycle.
package mux

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/policy"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
	"github.com/ctrlassist/ctrlassist/internal/sink"
	"github.com/ctrlassist/ctrlassist/internal/source"
)

// DefaultDeadzone is the default per-axis/trigger activity threshold.
const DefaultDeadzone = 0.1

// Config is everything the Mux Engine needs to run a session. Sources and
// the sink are injected already-open: construction (device discovery, the
// Hide Controller's acquire, the uinput/evdev Open calls) is the CLI
// layer's job, which keeps Engine itself trivially testable with fakes.
type Config struct {
	Primary, Assist source.Source
	Sink            sink.Sink
	Caps            sink.Capabilities
	Policy          policy.Policy
	RumbleTarget    rumble.Target
	Deadzone        float64
	Logger          *zap.SugaredLogger

	// Release is called once during shutdown, after the sink and sources
	// are closed, to release Hide Controller state.
	// May be nil.
	Release func() error
}

// Handle lets the caller stop a running session, or learn that the engine
// ended on its own (e.g. a physical disconnected).
type Handle struct {
	cancel context.CancelFunc
	group  *errgroup.Group
	done   chan struct{}

	once    sync.Once
	stopErr error
}

// Done is closed as soon as the engine's run loop returns, whether that's
// because the caller cancelled ctx or a Source disconnected. The loop
// returns no error of its own: a failed sink emit inside the loop is
// logged and the loop goes on. Callers that block waiting for the session to end
// should select on Done alongside their own cancellation signal, then
// call Stop to collect the result and release resources.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stop signals cancellation, joins the loop, and releases all resources.
// Idempotent: subsequent calls return the first call's result.
func (h *Handle) Stop() error {
	h.once.Do(func() {
		h.cancel()
		h.stopErr = h.group.Wait()
	})
	return h.stopErr
}

// Start constructs the engine's run loop over an already-assembled Config
// and launches it in the background, returning a Handle immediately.
func Start(ctx context.Context, cfg Config) (*Handle, error) {
	if cfg.Deadzone == 0 {
		cfg.Deadzone = DefaultDeadzone
	}

	e := &engine{
		cfg:     cfg,
		primary: shadow.New(cfg.Deadzone),
		assist:  shadow.New(cfg.Deadzone),
		last:    make(map[control.Control]control.Value),
		bridge:  rumble.NewBridge(cfg.RumbleTarget, cfg.Primary, cfg.Assist, cfg.Logger),
	}

	// Emit exactly one neutral value per advertised control before any
	// input event is processed.
	if err := e.emitAll(ctx, cfg.Caps.Controls()); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return e.run(gctx)
	})

	return &Handle{cancel: cancel, group: g, done: done}, nil
}
