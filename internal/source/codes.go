package source

import (
	"github.com/ctrlassist/ctrlassist/internal/control"
	li "github.com/ctrlassist/ctrlassist/internal/linuxinput"
)

var buttonCodes = map[uint16]control.Button{
	li.BtnSouth:     control.South,
	li.BtnEast:      control.East,
	li.BtnWest:      control.West,
	li.BtnNorth:     control.North,
	li.BtnTL:        control.L1,
	li.BtnTR:        control.R1,
	li.BtnThumbL:    control.L3,
	li.BtnThumbR:    control.R3,
	li.BtnSelect:    control.Select,
	li.BtnStart:     control.Start,
	li.BtnMode:      control.Mode,
	li.BtnDpadUp:    control.DpadUp,
	li.BtnDpadDown:  control.DpadDown,
	li.BtnDpadLeft:  control.DpadLeft,
	li.BtnDpadRight: control.DpadRight,
}

var axisCodes = map[uint16]control.Axis{
	li.AbsX:  control.LeftX,
	li.AbsY:  control.LeftY,
	li.AbsRX: control.RightX,
	li.AbsRY: control.RightY,
}

var triggerCodes = map[uint16]control.Trigger{
	li.AbsZ:  control.L2,
	li.AbsRZ: control.R2,
}
