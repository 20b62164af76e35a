package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ctrlassist/ctrlassist/internal/control"
)

func TestUnseenControlReadsNeutral(t *testing.T) {
	m := New(0.1)
	v, seen := m.Get(control.AxisControl(control.LeftX))
	assert.False(t, seen)
	assert.Equal(t, control.Neutral, v)
}

func TestUpdateReturnsPriorValueAndSeenFlag(t *testing.T) {
	m := New(0.1)
	c := control.ButtonControl(control.South)

	prior, priorSeen := m.Update(c, control.BoolValue(true))
	assert.False(t, priorSeen)
	assert.Equal(t, control.Neutral, prior)

	prior, priorSeen = m.Update(c, control.BoolValue(false))
	assert.True(t, priorSeen)
	assert.True(t, prior.Pressed)
}

func TestActiveButtonIsPressedState(t *testing.T) {
	m := New(0.1)
	c := control.ButtonControl(control.South)
	assert.False(t, m.Active(c))
	m.Update(c, control.BoolValue(true))
	assert.True(t, m.Active(c))
}

func TestActiveTriggerRequiresStrictlyAboveDeadzone(t *testing.T) {
	m := New(0.2)
	c := control.TriggerControl(control.L2)
	m.Update(c, control.ScalarValue(0.2))
	assert.False(t, m.Active(c))
	m.Update(c, control.ScalarValue(0.2001))
	assert.True(t, m.Active(c))
}

func TestActiveAxisUsesAbsoluteValue(t *testing.T) {
	m := New(0.1)
	c := control.AxisControl(control.LeftX)
	m.Update(c, control.ScalarValue(-0.5))
	assert.True(t, m.Active(c))
}
