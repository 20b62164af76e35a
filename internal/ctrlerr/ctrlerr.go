// Package ctrlerr models the CtrlAssist error taxonomy: Config,
// Permission, DeviceOpen, Io, Disconnect and RumbleSend. Each category is a
// sentinel that call sites attach to a failure with Wrap and that the CLI
// boundary later classifies with errors.Is to choose an exit code.
package ctrlerr

import "github.com/pkg/errors"

// Sentinel categories. Wrap these with Wrap(sentinel, cause, "detail") at
// the point of failure; classify with errors.Is(err, ctrlerr.Config) etc.
var (
	// Config covers bad flags or an unknown device id. Reported before the
	// loop starts; exit code 1.
	Config = errors.New("config error")

	// Permission covers system hide without root, or uinput access denied.
	// Reported before the loop starts; exit code 1.
	Permission = errors.New("permission error")

	// DeviceOpen covers a missing device or one lacking the minimum control
	// set. Aborts start; exit code 1.
	DeviceOpen = errors.New("device open error")

	// Io covers a read/write failure on a source or the sink; exit code 2.
	// A sink write that fails during the mux engine's initial neutral
	// emission aborts start; one that fails inside the running loop is
	// logged and does not end the session.
	Io = errors.New("i/o error")

	// Disconnect covers end-of-stream on a source. Triggers graceful
	// shutdown; exit code 0.
	Disconnect = errors.New("device disconnected")

	// RumbleSend covers a failed rumble dispatch to a physical. Non-fatal:
	// logged and dropped.
	RumbleSend = errors.New("rumble send error")
)

// ExitCode maps a classified error to the process exit code.
// A nil error exits 0 (normal shutdown). Disconnect also exits 0: it is
// graceful shutdown, not failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, Disconnect):
		return 0
	case errors.Is(err, Config), errors.Is(err, Permission), errors.Is(err, DeviceOpen):
		return 1
	default:
		return 2
	}
}

// Wrap attaches a category to an underlying error with a message. The
// returned error's chain contains both category and cause, so
// errors.Is(result, ctrlerr.Io) and errors.Is(result, cause) both succeed.
func Wrap(category error, cause error, message string) error {
	return &wrapped{category: category, cause: cause, message: message}
}

type wrapped struct {
	category error
	cause    error
	message  string
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.category.Error() + ": " + w.message
	}
	return w.category.Error() + ": " + w.message + ": " + w.cause.Error()
}

// Unwrap exposes both parents so errors.Is can match either the category
// sentinel or the underlying cause.
func (w *wrapped) Unwrap() []error {
	if w.cause == nil {
		return []error{w.category}
	}
	return []error{w.category, w.cause}
}
