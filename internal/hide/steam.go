package hide

import "go.uber.org/zap"

// steamStrategy records the intent to blacklist both physicals from Steam
// Input. Editing config.vdf is an external collaborator's contract, not core CtrlAssist code, so Acquire only logs that the caller
// asked for it; the System strategy is what actually stops other listeners
// from seeing the physicals in the meantime.
type steamStrategy struct {
	log *zap.SugaredLogger
}

func (s steamStrategy) Acquire(paths []string, grabbers []Grabber) (func() error, error) {
	if s.log != nil {
		s.log.Infow("steam hide requested; expects an external blacklist editor to have configured config.vdf")
	}
	return func() error { return nil }, nil
}
