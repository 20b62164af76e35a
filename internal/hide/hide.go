// Package hide implements the Hide Controller: a scoped
// acquisition that keeps other listeners from seeing the two raw physicals
// while CtrlAssist is multiplexing them, and restores visibility on every
// exit path.
package hide

import (
	"go.uber.org/zap"

	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
)

// Mode selects a hide Strategy.
type Mode uint8

const (
	// None performs no hiding; both physicals remain visible to any other
	// listener for the whole session.
	None Mode = iota
	// System grabs each physical's evdev node exclusively (EVIOCGRAB),
	// the in-core strategy.
	System
	// Steam defers to the Steam Input controller blacklist, an external
	// collaborator's contract: CtrlAssist only records the
	// intent here, it does not edit config.vdf itself.
	Steam
)

func (m Mode) String() string {
	switch m {
	case System:
		return "system"
	case Steam:
		return "steam"
	default:
		return "none"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "none", "":
		return None, nil
	case "system":
		return System, nil
	case "steam":
		return Steam, nil
	default:
		return None, ctrlerr.Wrap(ctrlerr.Config, nil, "unknown --hide value "+s)
	}
}

// Grabber is the optional capability a Source exposes in addition to
// file-mode hiding: EVIOCGRAB makes this process the exclusive reader of
// the device's events for as long as the grab is held. Not every Source
// implements it (fakes used in tests don't); Acquire skips a nil Grabber.
type Grabber interface {
	Grab() error
	Release() error
}

// Strategy is the Hide Controller's acquire/release contract. paths are
// the device nodes (evdev, and hidraw if resolvable) whose mode
// System narrows (group is left unchanged); grabbers are the
// matching Sources' optional EVIOCGRAB capability, index-aligned is not
// required — order doesn't matter. The returned release function must be
// safe to call more than once and restore every modified node regardless
// of which step failed.
type Strategy interface {
	Acquire(paths []string, grabbers []Grabber) (release func() error, err error)
}

// New resolves a Mode to its Strategy.
func New(mode Mode, log *zap.SugaredLogger) Strategy {
	switch mode {
	case System:
		return systemStrategy{log: log}
	case Steam:
		return steamStrategy{log: log}
	default:
		return noneStrategy{}
	}
}
