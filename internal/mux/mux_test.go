package mux

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/policy"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
	"github.com/ctrlassist/ctrlassist/internal/sink"
	"github.com/ctrlassist/ctrlassist/internal/source"
)

func newHarness(t *testing.T, p policy.Policy) (*source.Fake, *source.Fake, *sink.Fake, *Handle) {
	t.Helper()

	p1 := source.NewFake(source.Descriptor{Name: "primary"})
	p2 := source.NewFake(source.Descriptor{Name: "assist"})
	sk := sink.NewFake()

	h, err := Start(context.Background(), Config{
		Primary:      p1,
		Assist:       p2,
		Sink:         sk,
		Caps:         sink.FullCapabilities(),
		Policy:       p,
		RumbleTarget: rumble.Both,
		Deadzone:     0.1,
	})
	require.NoError(t, err)
	return p1, p2, sk, h
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// Before any input is processed the sink has already received a
// neutral value for every advertised control.
func TestInitialNeutralEmission(t *testing.T) {
	_, _, sk, h := newHarness(t, policy.Priority{})
	defer h.Stop()

	for _, c := range sink.FullCapabilities().Controls() {
		v, ok := sk.Last(c)
		assert.True(t, ok, "control %s never emitted", c)
		assert.Equal(t, control.Neutral, v)
	}
}

// An Assist button press preempts Primary under Priority, and
// releasing it hands control straight back (no latching).
func TestPriorityButtonPreemptAndRelease(t *testing.T) {
	_, assistSrc, sk, h := newHarness(t, policy.Priority{})
	defer h.Stop()

	south := control.ButtonControl(control.South)

	assistSrc.Push(source.Event{Control: south, Value: control.BoolValue(true), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(south)
		return ok && v.Pressed
	})

	assistSrc.Push(source.Event{Control: south, Value: control.BoolValue(false), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(south)
		return ok && !v.Pressed
	})
}

// Priority trigger boundary: a tie goes to Assist.
func TestPriorityTriggerTieGoesToAssist(t *testing.T) {
	primarySrc, assistSrc, sk, h := newHarness(t, policy.Priority{})
	defer h.Stop()

	l2 := control.TriggerControl(control.L2)
	primarySrc.Push(source.Event{Control: l2, Value: control.ScalarValue(0.5), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(l2)
		return ok && v.Scalar == 0.5
	})

	assistSrc.Push(source.Event{Control: l2, Value: control.ScalarValue(0.5), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(l2)
		return ok && v.Scalar == 0.5
	})
	// Can't directly observe which shadow "won" a literal tie by value
	// alone, so drive assist strictly above to confirm the output follows
	// Assist once it is the larger value, not a frozen Primary value.
	assistSrc.Push(source.Event{Control: l2, Value: control.ScalarValue(0.75), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(l2)
		return ok && v.Scalar == 0.75
	})
}

// A Toggle swap re-emits the full control set from the new Active
// shadow unconditionally, even controls whose merged value doesn't change.
func TestToggleSwapResyncsEveryControl(t *testing.T) {
	primarySrc, assistSrc, sk, h := newHarness(t, policy.NewToggle())
	defer h.Stop()

	lx := control.AxisControl(control.LeftX)
	primarySrc.Push(source.Event{Control: lx, Value: control.ScalarValue(0.3), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(lx)
		return ok && v.Scalar == 0.3
	})

	mode := control.ButtonControl(control.Mode)
	assistSrc.Push(source.Event{Control: mode, Value: control.BoolValue(true), Timestamp: time.Now()})

	// After the swap, Assist's never-seen LeftX (neutral) must have been
	// re-driven to the sink, even though the Mode button event itself
	// doesn't touch LeftX.
	waitFor(t, func() bool {
		v, ok := sk.Last(lx)
		return ok && v.Scalar == 0
	})
}

// Shutdown drives every advertised control back to neutral before the
// sink is closed.
func TestShutdownEmitsNeutral(t *testing.T) {
	primarySrc, _, sk, h := newHarness(t, policy.Priority{})

	lx := control.AxisControl(control.LeftX)
	primarySrc.Push(source.Event{Control: lx, Value: control.ScalarValue(0.8), Timestamp: time.Now()})
	waitFor(t, func() bool {
		v, ok := sk.Last(lx)
		return ok && v.Scalar == 0.8
	})

	require.NoError(t, h.Stop())

	v, ok := sk.Last(lx)
	require.True(t, ok)
	assert.Equal(t, control.Neutral, v)
}

// Stop is idempotent.
func TestStopIdempotent(t *testing.T) {
	_, _, _, h := newHarness(t, policy.Priority{})
	require.NoError(t, h.Stop())
	require.NoError(t, h.Stop())
}

// A rumble command received on the sink is dispatched to both
// physicals when the target is "both".
func TestRumbleBridgeDispatchesToBoth(t *testing.T) {
	primarySrc, assistSrc, sk, h := newHarness(t, policy.Priority{})
	defer h.Stop()

	sk.PushRumble(rumble.Command{Strong: 1000, Weak: 500, DurationMs: 200})

	waitFor(t, func() bool {
		return len(primarySrc.Rumbles()) == 1 && len(assistSrc.Rumbles()) == 1
	})

	assert.Equal(t, uint16(1000), primarySrc.Rumbles()[0].Strong)
	assert.Equal(t, uint16(1000), assistSrc.Rumbles()[0].Strong)
}

// A disconnecting source (closed event channel) ends the session
// cleanly rather than hanging or panicking.
func TestSourceDisconnectEndsSession(t *testing.T) {
	primarySrc, _, _, h := newHarness(t, policy.Priority{})
	primarySrc.Disconnect()

	done := make(chan error, 1)
	go func() { done <- h.Stop() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after source disconnect")
	}
}

// A disconnect must surface on Handle.Done() on its own, without the
// caller ever calling Stop first: this is what lets a caller blocked on
// a select between ctx.Done() and Done() wake up and exit.
func TestSourceDisconnectSignalsDone(t *testing.T) {
	primarySrc, _, _, h := newHarness(t, policy.Priority{})
	defer h.Stop()
	primarySrc.Disconnect()

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done was not closed after source disconnect")
	}
}
