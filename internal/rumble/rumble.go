// Package rumble implements the Rumble Bridge: routing
// force-feedback commands received on the virtual sink to the selected
// physical(s).
package rumble

import (
	"context"

	"go.uber.org/zap"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
)

// Target selects which physical(s) a rumble command is dispatched to.
type Target uint8

const (
	None Target = iota
	PrimaryTarget
	AssistTarget
	Both
)

func ParseTarget(s string) (Target, error) {
	switch s {
	case "none", "":
		return None, nil
	case "primary":
		return PrimaryTarget, nil
	case "assist":
		return AssistTarget, nil
	case "both":
		return Both, nil
	default:
		return None, ctrlerr.Wrap(ctrlerr.Config, nil, "unknown --rumble value "+s)
	}
}

// Command is a force-feedback command as received from the sink.
type Command struct {
	Strong, Weak uint16
	DurationMs   uint32
}

// Sender forwards a Command to one physical. Both GamepadSource
// implementations satisfy this.
type Sender interface {
	SendRumble(ctx context.Context, strong, weak uint16, durationMs uint32) error
}

// Bridge dispatches rumble commands per the configured Target. Commands
// received while no supported target is attached are dropped without
// error; per-physical send errors are logged and swallowed (// RumbleSend is non-fatal).
type Bridge struct {
	target  Target
	primary Sender
	assist  Sender
	log     *zap.SugaredLogger
}

func NewBridge(target Target, primary, assist Sender, log *zap.SugaredLogger) *Bridge {
	return &Bridge{target: target, primary: primary, assist: assist, log: log}
}

// Dispatch sends cmd to the configured target(s). Both dispatches to each
// physical exactly once.
func (b *Bridge) Dispatch(ctx context.Context, cmd Command) {
	switch b.target {
	case None:
		return
	case PrimaryTarget:
		b.send(ctx, control.Primary, b.primary, cmd)
	case AssistTarget:
		b.send(ctx, control.Assist, b.assist, cmd)
	case Both:
		b.send(ctx, control.Primary, b.primary, cmd)
		b.send(ctx, control.Assist, b.assist, cmd)
	}
}

func (b *Bridge) send(ctx context.Context, role control.Role, s Sender, cmd Command) {
	if s == nil {
		return
	}
	if err := s.SendRumble(ctx, cmd.Strong, cmd.Weak, cmd.DurationMs); err != nil {
		err = ctrlerr.Wrap(ctrlerr.RumbleSend, err, "rumble send to "+role.String()+" failed")
		if b.log != nil {
			b.log.Warnw("rumble send failed", "role", role.String(), "error", err)
		}
	}
}
