package policy

import (
	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/shadow"
)

// Average blends by activity: axes/triggers average when both sides are
// active, pass through the single active side when only one is, and settle
// to neutral when neither is; buttons are a logical OR.
type Average struct{}

func (Average) Name() string { return "average" }

func (Average) MergeButton(primary, assist *shadow.Mirror, b control.Button) control.Value {
	return control.BoolValue(buttonValue(primary, b).Pressed || buttonValue(assist, b).Pressed)
}

func (Average) MergeAxis(primary, assist *shadow.Mirror, a control.Axis) control.Value {
	pActive, aActive := activeAxis(primary, a), activeAxis(assist, a)
	switch {
	case pActive && aActive:
		p, asst := axisValue(primary, a), axisValue(assist, a)
		return control.ScalarValue((p.Scalar + asst.Scalar) / 2)
	case pActive:
		return axisValue(primary, a)
	case aActive:
		return axisValue(assist, a)
	default:
		return control.Neutral
	}
}

func (Average) MergeTrigger(primary, assist *shadow.Mirror, t control.Trigger) control.Value {
	pActive, aActive := activeTrigger(primary, t), activeTrigger(assist, t)
	switch {
	case pActive && aActive:
		p, asst := triggerValue(primary, t), triggerValue(assist, t)
		return control.ScalarValue((p.Scalar + asst.Scalar) / 2)
	case pActive:
		return triggerValue(primary, t)
	case aActive:
		return triggerValue(assist, t)
	default:
		return control.Neutral
	}
}

// OnEvent: Average carries no internal state, so it never swaps.
func (Average) OnEvent(control.Role, control.Control, *shadow.Mirror, *shadow.Mirror) bool {
	return false
}
