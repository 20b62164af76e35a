package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
)

func TestFakeEmitTracksLastValuePerControl(t *testing.T) {
	f := NewFake()
	c := control.AxisControl(control.LeftX)

	_, ok := f.Last(c)
	assert.False(t, ok)

	require.NoError(t, f.Emit(context.Background(), c, control.ScalarValue(0.5)))
	require.NoError(t, f.Emit(context.Background(), c, control.ScalarValue(0.7)))

	v, ok := f.Last(c)
	require.True(t, ok)
	assert.Equal(t, 0.7, v.Scalar)
}

func TestFakeRumbleEventsDeliversPushed(t *testing.T) {
	f := NewFake()
	f.PushRumble(rumble.Command{Strong: 1})
	cmd := <-f.RumbleEvents()
	assert.Equal(t, uint16(1), cmd.Strong)
}

func TestFakeCloseIsIdempotent(t *testing.T) {
	f := NewFake()
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}
