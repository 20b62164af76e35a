package rumble

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls []Command
	err   error
}

func (f *fakeSender) SendRumble(_ context.Context, strong, weak uint16, durationMs uint32) error {
	f.calls = append(f.calls, Command{Strong: strong, Weak: weak, DurationMs: durationMs})
	return f.err
}

func TestParseTarget(t *testing.T) {
	cases := map[string]Target{"none": None, "": None, "primary": PrimaryTarget, "assist": AssistTarget, "both": Both}
	for in, want := range cases {
		got, err := ParseTarget(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTarget("bogus")
	assert.Error(t, err)
}

// A rumble command dispatched with target=Both reaches each physical
// exactly once.
func TestDispatchBothReachesEachPhysicalOnce(t *testing.T) {
	p, a := &fakeSender{}, &fakeSender{}
	b := NewBridge(Both, p, a, nil)

	b.Dispatch(context.Background(), Command{Strong: 255, Weak: 0, DurationMs: 200})

	require.Len(t, p.calls, 1)
	require.Len(t, a.calls, 1)
	assert.Equal(t, Command{Strong: 255, Weak: 0, DurationMs: 200}, p.calls[0])
	assert.Equal(t, Command{Strong: 255, Weak: 0, DurationMs: 200}, a.calls[0])
}

func TestDispatchNoneDropsSilently(t *testing.T) {
	p, a := &fakeSender{}, &fakeSender{}
	b := NewBridge(None, p, a, nil)
	b.Dispatch(context.Background(), Command{Strong: 10})
	assert.Empty(t, p.calls)
	assert.Empty(t, a.calls)
}

func TestDispatchPrimaryOnly(t *testing.T) {
	p, a := &fakeSender{}, &fakeSender{}
	b := NewBridge(PrimaryTarget, p, a, nil)
	b.Dispatch(context.Background(), Command{Strong: 10})
	assert.Len(t, p.calls, 1)
	assert.Empty(t, a.calls)
}

// A failed send is swallowed, not propagated.
func TestDispatchSwallowsSendError(t *testing.T) {
	p := &fakeSender{err: errors.New("boom")}
	b := NewBridge(PrimaryTarget, p, nil, nil)
	assert.NotPanics(t, func() {
		b.Dispatch(context.Background(), Command{Strong: 1})
	})
}

func TestDispatchNilSenderIsNoop(t *testing.T) {
	b := NewBridge(Both, nil, nil, nil)
	assert.NotPanics(t, func() {
		b.Dispatch(context.Background(), Command{Strong: 1})
	})
}
