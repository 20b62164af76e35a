// Package config holds the resolved parameters for one mux session: everything the `mux` CLI command's flags parse into before handing
// off to internal/mux. Kept as a plain struct, following this codebase's own
// preference for flag-parsed structs over a config-file format — CtrlAssist
// has no persistent configuration.
package config

import (
	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
	"github.com/ctrlassist/ctrlassist/internal/hide"
	"github.com/ctrlassist/ctrlassist/internal/policy"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
)

func unknownMode(m string) error {
	return ctrlerr.Wrap(ctrlerr.Config, nil, "unknown --mode value "+m)
}

// Mux is the resolved configuration for a single `mux` invocation. Primary
// and Assist are resolved separately by the CLI layer via internal/discover
// (the --primary/--assist flags are controller IDs from `list`, not paths).
type Mux struct {
	Mode   string // "priority", "average" or "toggle"
	Spoof  string // "none", "primary" or "assist"
	Hide   hide.Mode
	Rumble rumble.Target
}

// ResolvePolicy turns Mode into a policy.Policy instance.
func (m Mux) ResolvePolicy() (policy.Policy, error) {
	switch m.Mode {
	case "priority", "":
		return policy.Priority{}, nil
	case "average":
		return policy.Average{}, nil
	case "toggle":
		return policy.NewToggle(), nil
	default:
		return nil, unknownMode(m.Mode)
	}
}
