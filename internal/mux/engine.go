package mux

import (
	"context"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/policy"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
	"github.com/ctrlassist/ctrlassist/internal/source"
)

// engine owns the shadows, the last-emitted snapshot and the single select
// loop. Everything here runs on one goroutine: shadows and the
// last-emitted map are never touched from anywhere else, so none of it needs its own locking.
type engine struct {
	cfg Config

	primary, assist *shadow.Mirror
	last            map[control.Control]control.Value

	bridge *rumble.Bridge
}

// run is the Mux Engine's main loop. It fans in the two
// physical event streams and the sink's rumble stream, and exits when ctx
// is cancelled or either Source's channel closes (disconnect).
// Select's pseudo-random case choice among ready channels means neither
// stream can permanently starve the other; each iteration handles exactly
// one event end to end before looping back,
// so an event's derived emission and a rumble dispatch never interleave.
func (e *engine) run(ctx context.Context) error {
	primaryCh := e.cfg.Primary.Events()
	assistCh := e.cfg.Assist.Events()
	rumbleCh := e.cfg.Sink.RumbleEvents()

	defer e.shutdown(context.Background())

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-primaryCh:
			if !ok {
				if e.cfg.Logger != nil {
					e.cfg.Logger.Warnw("source disconnected", "role", control.Primary.String())
				}
				return nil
			}
			e.handleInput(ctx, control.Primary, ev)

		case ev, ok := <-assistCh:
			if !ok {
				if e.cfg.Logger != nil {
					e.cfg.Logger.Warnw("source disconnected", "role", control.Assist.String())
				}
				return nil
			}
			e.handleInput(ctx, control.Assist, ev)

		case cmd, ok := <-rumbleCh:
			if !ok {
				continue
			}
			e.bridge.Dispatch(ctx, cmd)
		}
	}
}

func (e *engine) mirrorFor(role control.Role) *shadow.Mirror {
	if role == control.Primary {
		return e.primary
	}
	return e.assist
}

// handleInput updates the event's source shadow, re-derives and emits the
// merged virtual value if it changed, then lets the policy observe the
// event: a Toggle swap triggers a full, unconditional resync of every
// advertised control from the newly active shadow so the
// game sees one consistent snapshot rather than a partial diff.
func (e *engine) handleInput(ctx context.Context, role control.Role, ev source.Event) {
	e.mirrorFor(role).Update(ev.Control, ev.Value)

	out := policy.Merge(e.cfg.Policy, e.primary, e.assist, ev.Control)
	e.emitIfChanged(ctx, ev.Control, out)

	if e.cfg.Policy.OnEvent(role, ev.Control, e.primary, e.assist) {
		e.resync(ctx)
	}
}

func (e *engine) emitIfChanged(ctx context.Context, c control.Control, v control.Value) {
	if prior, ok := e.last[c]; ok && prior == v {
		return
	}
	if err := e.cfg.Sink.Emit(ctx, c, v); err != nil && e.cfg.Logger != nil {
		e.cfg.Logger.Warnw("sink emit failed", "control", c.String(), "error", err)
	}
	e.last[c] = v
}

// resync unconditionally re-emits every advertised control.
func (e *engine) resync(ctx context.Context) {
	for _, c := range e.cfg.Caps.Controls() {
		v := policy.Merge(e.cfg.Policy, e.primary, e.assist, c)
		if err := e.cfg.Sink.Emit(ctx, c, v); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Warnw("sink emit failed during resync", "control", c.String(), "error", err)
		}
		e.last[c] = v
	}
}

// emitAll force-emits the neutral value for every control in cs regardless of e.last,
// recording each as the new baseline. Used for the pre-loop initial
// neutral emission.
func (e *engine) emitAll(ctx context.Context, cs []control.Control) error {
	for _, c := range cs {
		if err := e.cfg.Sink.Emit(ctx, c, control.Neutral); err != nil {
			return err
		}
		e.last[c] = control.Neutral
	}
	return nil
}

// shutdown runs the graceful teardown sequence: force
// every advertised control back to neutral, close the sink and both
// sources, then release whatever Hide Controller state is held. Each step
// best-efforts past the previous one's failure so a single broken physical
// doesn't leave the others, or Hide, leaked.
func (e *engine) shutdown(ctx context.Context) {
	for _, c := range e.cfg.Caps.Controls() {
		if err := e.cfg.Sink.Emit(ctx, c, control.Neutral); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Warnw("neutral emit failed during shutdown", "control", c.String(), "error", err)
		}
	}

	if err := e.cfg.Sink.Close(); err != nil && e.cfg.Logger != nil {
		e.cfg.Logger.Warnw("sink close failed", "error", err)
	}
	if err := e.cfg.Primary.Close(); err != nil && e.cfg.Logger != nil {
		e.cfg.Logger.Warnw("primary source close failed", "error", err)
	}
	if err := e.cfg.Assist.Close(); err != nil && e.cfg.Logger != nil {
		e.cfg.Logger.Warnw("assist source close failed", "error", err)
	}
	if e.cfg.Release != nil {
		if err := e.cfg.Release(); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Warnw("hide release failed", "error", err)
		}
	}
}
