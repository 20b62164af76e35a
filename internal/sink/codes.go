package sink

import (
	"github.com/ctrlassist/ctrlassist/internal/control"
	li "github.com/ctrlassist/ctrlassist/internal/linuxinput"
)

func buttonCode(b control.Button) uint16 {
	switch b {
	case control.South:
		return li.BtnSouth
	case control.East:
		return li.BtnEast
	case control.West:
		return li.BtnWest
	case control.North:
		return li.BtnNorth
	case control.L1:
		return li.BtnTL
	case control.R1:
		return li.BtnTR
	case control.L3:
		return li.BtnThumbL
	case control.R3:
		return li.BtnThumbR
	case control.Select:
		return li.BtnSelect
	case control.Start:
		return li.BtnStart
	case control.Mode:
		return li.BtnMode
	case control.DpadUp:
		return li.BtnDpadUp
	case control.DpadDown:
		return li.BtnDpadDown
	case control.DpadLeft:
		return li.BtnDpadLeft
	case control.DpadRight:
		return li.BtnDpadRight
	default:
		return 0
	}
}

func axisCode(a control.Axis) uint16 {
	switch a {
	case control.LeftX:
		return li.AbsX
	case control.LeftY:
		return li.AbsY
	case control.RightX:
		return li.AbsRX
	case control.RightY:
		return li.AbsRY
	default:
		return 0
	}
}

func triggerCode(t control.Trigger) uint16 {
	switch t {
	case control.L2:
		return li.AbsZ
	case control.R2:
		return li.AbsRZ
	default:
		return 0
	}
}
