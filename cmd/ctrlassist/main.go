//go:build linux

// Command ctrlassist multiplexes two physical gamepads into one virtual
// "copilot" gamepad. See internal/mux for the engine itself; this file is
// the urfave/cli/v2 surface that wraps it: list, mux, tray, help.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ctrlassist/ctrlassist/internal/config"
	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
	"github.com/ctrlassist/ctrlassist/internal/discover"
	"github.com/ctrlassist/ctrlassist/internal/hide"
	"github.com/ctrlassist/ctrlassist/internal/mux"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
	"github.com/ctrlassist/ctrlassist/internal/sink"
	"github.com/ctrlassist/ctrlassist/internal/source"
)

func main() {
	log := newLogger()
	defer log.Sync()

	app := &cli.App{
		Name:  "ctrlassist",
		Usage: "merge two gamepads into one copilot virtual gamepad",
		Commands: []*cli.Command{
			listCommand(log),
			muxCommand(log),
			trayCommand(log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorw(err.Error())
		os.Exit(ctrlerr.ExitCode(err))
	}
}

func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

func listCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "enumerate detected controllers",
		Action: func(*cli.Context) error {
			candidates, err := discover.Enumerate()
			if err != nil {
				return err
			}
			for i, c := range candidates {
				fmt.Printf("%d\t%s\t%s\n", i, c.Path, c.Name)
			}
			return nil
		},
	}
}

func trayCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "tray",
		Usage: "launch the system-tray GUI (external collaborator, not implemented here)",
		Action: func(*cli.Context) error {
			return ctrlerr.Wrap(ctrlerr.Config, nil, "tray is an external GUI collaborator outside ctrlassist's core")
		},
	}
}

func muxCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "mux",
		Usage: "run the mux engine",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "primary", Value: -1, Usage: "Primary controller ID from `list` (default: first detected)"},
			&cli.IntFlag{Name: "assist", Value: -1, Usage: "Assist controller ID from `list` (default: second detected)"},
			&cli.StringFlag{Name: "mode", Value: "priority", Usage: "priority|average|toggle"},
			&cli.StringFlag{Name: "spoof", Value: "none", Usage: "none|primary|assist"},
			&cli.StringFlag{Name: "hide", Value: "none", Usage: "none|steam|system"},
			&cli.StringFlag{Name: "rumble", Value: "both", Usage: "none|primary|assist|both"},
		},
		Action: func(c *cli.Context) error {
			return runMux(c, log)
		},
	}
}

func runMux(c *cli.Context, log *zap.SugaredLogger) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	candidates, err := discover.Enumerate()
	if err != nil {
		return err
	}

	primaryDesc, err := pickCandidate(candidates, c.Int("primary"), 0)
	if err != nil {
		return err
	}
	assistDesc, err := pickCandidate(candidates, c.Int("assist"), 1)
	if err != nil {
		return err
	}
	if primaryDesc.Path == assistDesc.Path {
		return ctrlerr.Wrap(ctrlerr.Config, nil, "--primary and --assist resolve to the same device")
	}

	source.Bootstrap(log)

	primarySrc, err := source.Open(primaryDesc.Path)
	if err != nil {
		return err
	}
	assistSrc, err := source.Open(assistDesc.Path)
	if err != nil {
		primarySrc.Close()
		return err
	}

	identity := resolveIdentity(cfg.Spoof, primarySrc.Identity(), assistSrc.Identity())
	caps := sink.Union(primarySrc.Identity().Caps, assistSrc.Identity().Caps)
	if len(caps.Buttons) == 0 && len(caps.Axes) == 0 {
		caps = sink.FullCapabilities()
	}

	virtualSink, err := sink.Open(identity, caps)
	if err != nil {
		primarySrc.Close()
		assistSrc.Close()
		return err
	}

	release, err := acquireHide(cfg.Hide, log, primaryDesc.Path, assistDesc.Path, primarySrc, assistSrc)
	if err != nil {
		virtualSink.Close()
		primarySrc.Close()
		assistSrc.Close()
		return err
	}

	policy, err := cfg.ResolvePolicy()
	if err != nil {
		release()
		virtualSink.Close()
		primarySrc.Close()
		assistSrc.Close()
		return err
	}

	log.Infow("bound controllers",
		"primary", primaryDesc.Name, "assist", assistDesc.Name,
		"virtual", identity.Name, "mode", policy.Name(), "hide", cfg.Hide, "rumble", cfg.Rumble)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handle, err := mux.Start(ctx, mux.Config{
		Primary:      primarySrc,
		Assist:       assistSrc,
		Sink:         virtualSink,
		Caps:         caps,
		Policy:       policy,
		RumbleTarget: cfg.Rumble,
		Logger:       log,
		Release:      release,
	})
	if err != nil {
		release()
		virtualSink.Close()
		primarySrc.Close()
		assistSrc.Close()
		return err
	}

	select {
	case <-ctx.Done():
	case <-handle.Done():
	}
	err = handle.Stop()
	log.Infow("shutdown complete", "restored", cfg.Hide != hide.None)
	return err
}

func resolveConfig(c *cli.Context) (config.Mux, error) {
	hideMode, err := hide.ParseMode(c.String("hide"))
	if err != nil {
		return config.Mux{}, err
	}
	rumbleTarget, err := rumble.ParseTarget(c.String("rumble"))
	if err != nil {
		return config.Mux{}, err
	}
	switch c.String("spoof") {
	case "none", "primary", "assist":
	default:
		return config.Mux{}, ctrlerr.Wrap(ctrlerr.Config, nil, "unknown --spoof value "+c.String("spoof"))
	}

	return config.Mux{
		Mode:   c.String("mode"),
		Spoof:  c.String("spoof"),
		Hide:   hideMode,
		Rumble: rumbleTarget,
	}, nil
}

func pickCandidate(candidates []discover.Candidate, id, fallbackIndex int) (discover.Candidate, error) {
	idx := id
	if idx < 0 {
		idx = fallbackIndex
	}
	if idx < 0 || idx >= len(candidates) {
		return discover.Candidate{}, ctrlerr.Wrap(ctrlerr.Config, nil, "no controller at that ID")
	}
	return candidates[idx], nil
}

func resolveIdentity(spoof string, primary, assist source.Descriptor) sink.Identity {
	switch spoof {
	case "primary":
		return sink.Identity{Vendor: primary.Vendor, Product: primary.Product, Version: primary.Version, Name: primary.Name}
	case "assist":
		return sink.Identity{Vendor: assist.Vendor, Product: assist.Product, Version: assist.Version, Name: assist.Name}
	default:
		return sink.DefaultIdentity
	}
}

func acquireHide(mode hide.Mode, log *zap.SugaredLogger, primaryPath, assistPath string, primarySrc, assistSrc *source.EvdevSource) (func() error, error) {
	strategy := hide.New(mode, log)

	var paths []string
	var grabbers []hide.Grabber
	if mode == hide.System {
		paths = append(paths, hide.ResolveNodes(primaryPath)...)
		paths = append(paths, hide.ResolveNodes(assistPath)...)
		grabbers = []hide.Grabber{primarySrc, assistSrc}
	}

	return strategy.Acquire(paths, grabbers)
}
