package hide

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
)

// hiddenMode is what System chmods a device node to while hidden: owner
// read/write only, so an unprivileged game process can no longer open it
// directly. Group is left untouched: CtrlAssist doesn't know what group a
// deployment wants nodes restricted to, so only the mode bits are narrowed.
const hiddenMode os.FileMode = 0o600

// systemStrategy narrows each node's permissions and, where a Source
// supports it, also grabs it exclusively. Acquire either succeeds for everything or unwinds
// whatever it already touched and returns the first error, so a partial
// hide never lingers.
type systemStrategy struct {
	log *zap.SugaredLogger
}

type restoration struct {
	path string
	mode os.FileMode
}

func (s systemStrategy) Acquire(paths []string, grabbers []Grabber) (func() error, error) {
	var restores []restoration
	var grabbed []Grabber

	unwind := func() error {
		var first error
		for i := len(grabbed) - 1; i >= 0; i-- {
			if err := grabbed[i].Release(); err != nil {
				s.warn("grab release failed", err)
				if first == nil {
					first = err
				}
			}
		}
		for i := len(restores) - 1; i >= 0; i-- {
			r := restores[i]
			if err := os.Chmod(r.path, r.mode); err != nil {
				s.warn("mode restore failed for "+r.path, err)
				if first == nil {
					first = err
				}
			}
		}
		return first
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			unwind()
			return noop, ctrlerr.Wrap(ctrlerr.Permission, err, "stat "+p)
		}
		if err := os.Chmod(p, hiddenMode); err != nil {
			unwind()
			return noop, ctrlerr.Wrap(ctrlerr.Permission, err, "chmod "+p)
		}
		restores = append(restores, restoration{path: p, mode: info.Mode().Perm()})
	}

	for _, g := range grabbers {
		if g == nil {
			continue
		}
		if err := g.Grab(); err != nil {
			unwind()
			return noop, ctrlerr.Wrap(ctrlerr.Permission, err, "grab")
		}
		grabbed = append(grabbed, g)
	}

	var once sync.Once
	var onceErr error
	return func() error {
		once.Do(func() { onceErr = unwind() })
		return onceErr
	}, nil
}

func (s systemStrategy) warn(msg string, err error) {
	if s.log != nil {
		s.log.Warnw(msg, "error", err)
	}
}

func noop() error { return nil }
