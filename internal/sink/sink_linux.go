//go:build linux

package sink

import (
	"context"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
	li "github.com/ctrlassist/ctrlassist/internal/linuxinput"
	"github.com/ctrlassist/ctrlassist/internal/rumble"
)

// UinputSink is the real Virtual Pad Sink, backed by /dev/uinput. It is the
// generalization of NewVirtualGamepad/VirtualGamepad: an arbitrary
// capability set (the union of primary+assist) and caller-chosen identity
// replace a fixed Switch-Pro layout and hardcoded vendor/product.
type UinputSink struct {
	file *os.File
	caps Capabilities

	mu      sync.Mutex
	effects map[uint32]li.FFEffect

	rumbleCh chan rumble.Command
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

const uinputPath = "/dev/uinput"

// Open creates a uinput virtual gamepad advertising caps, registered under
// identity. The caller must call Emit with the neutral value for every
// advertised control immediately after Open returns; Open itself does not
// emit anything.
func Open(identity Identity, caps Capabilities) (*UinputSink, error) {
	f, err := os.OpenFile(uinputPath, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, ctrlerr.Wrap(ctrlerr.Permission, err, "open "+uinputPath)
	}

	if err := setupUinput(f, identity, caps); err != nil {
		f.Close()
		return nil, err
	}

	s := &UinputSink{
		file:     f,
		caps:     caps,
		effects:  make(map[uint32]li.FFEffect),
		rumbleCh: make(chan rumble.Command, 16),
		closeCh:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.readLoop()
	return s, nil
}

func ioctlPtr(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlVal(fd uintptr, req uintptr, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func setupUinput(f *os.File, identity Identity, caps Capabilities) error {
	fd := f.Fd()

	for _, bit := range []uintptr{li.EvKey, li.EvAbs, li.EvSyn, li.EvFF} {
		if err := ioctlVal(fd, li.UISetEvbit, bit); err != nil {
			return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_SET_EVBIT")
		}
	}

	for _, b := range caps.Controls() {
		if b.Kind() != control.KindButton {
			continue
		}
		if err := ioctlVal(fd, li.UISetKeybit, uintptr(buttonCode(b.Button()))); err != nil {
			return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_SET_KEYBIT")
		}
	}
	for _, c := range caps.Controls() {
		var code uint16
		switch c.Kind() {
		case control.KindAxis:
			code = axisCode(c.Axis())
		case control.KindTrigger:
			code = triggerCode(c.Trigger())
		default:
			continue
		}
		if err := ioctlVal(fd, li.UISetAbsbit, uintptr(code)); err != nil {
			return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_SET_ABSBIT")
		}
	}
	if err := ioctlVal(fd, li.UISetFFbit, li.FFRumble); err != nil {
		return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_SET_FFBIT")
	}

	var usetup li.UinputSetup
	name := identity.Name
	if len(name) > len(usetup.Name)-1 {
		name = name[:len(usetup.Name)-1]
	}
	copy(usetup.Name[:], name)
	usetup.ID = li.InputID{Bustype: li.BusUSB, Vendor: identity.Vendor, Product: identity.Product, Version: identity.Version}
	usetup.FFEffectsMax = 16

	if err := ioctlPtr(fd, li.UIDevSetup, unsafe.Pointer(&usetup)); err != nil {
		return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_DEV_SETUP")
	}

	for _, c := range caps.Controls() {
		var code uint16
		minV, maxV, fuzz, flat := int32(0), int32(0), int32(0), int32(0)
		switch c.Kind() {
		case control.KindAxis:
			code = axisCode(c.Axis())
			minV, maxV, fuzz, flat = -32768, 32767, 16, 128
		case control.KindTrigger:
			code = triggerCode(c.Trigger())
			minV, maxV, fuzz, flat = 0, 255, 0, 0
		default:
			continue
		}
		setup := li.UinputAbsSetup{Code: code, Info: li.InputAbsinfo{Minimum: minV, Maximum: maxV, Fuzz: fuzz, Flat: flat}}
		if err := ioctlPtr(fd, li.UIAbsSetup, unsafe.Pointer(&setup)); err != nil {
			return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_ABS_SETUP")
		}
	}

	if err := ioctlVal(fd, li.UIDevCreate, 0); err != nil {
		return ctrlerr.Wrap(ctrlerr.Permission, err, "UI_DEV_CREATE")
	}
	return nil
}

// Emit writes a single synthetic event for c, followed by an EV_SYN report
// so the game observes it atomically.
func (s *UinputSink) Emit(ctx context.Context, c control.Control, v control.Value) error {
	var typ, code uint16
	var value int32

	switch c.Kind() {
	case control.KindButton:
		typ, code = li.EvKey, buttonCode(c.Button())
		if v.Pressed {
			value = 1
		}
	case control.KindAxis:
		typ, code = li.EvAbs, axisCode(c.Axis())
		value = int32(clamp(v.Scalar, -1, 1) * 32767)
	case control.KindTrigger:
		typ, code = li.EvAbs, triggerCode(c.Trigger())
		value = int32(clamp(v.Scalar, 0, 1) * 255)
	}

	if err := s.writeEvent(typ, code, value); err != nil {
		return ctrlerr.Wrap(ctrlerr.Io, err, "uinput write")
	}
	if err := s.writeEvent(li.EvSyn, 0, 0); err != nil {
		return ctrlerr.Wrap(ctrlerr.Io, err, "uinput sync")
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *UinputSink) writeEvent(typ, code uint16, value int32) error {
	ev := li.InputEvent{Type: typ, Code: code, Value: value}
	buf := (*(*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev)))[:]
	_, err := unix.Write(int(s.file.Fd()), buf)
	return err
}

func (s *UinputSink) RumbleEvents() <-chan rumble.Command {
	return s.rumbleCh
}

func (s *UinputSink) Close() error {
	close(s.closeCh)
	s.wg.Wait()
	ioctlVal(s.file.Fd(), li.UIDevDestroy, 0)
	err := s.file.Close()
	close(s.rumbleCh)
	if err != nil {
		return ctrlerr.Wrap(ctrlerr.Io, err, "close uinput")
	}
	return nil
}

// readLoop drains force-feedback upload/erase/play commands the kernel
// sends back on the uinput fd and turns them into rumble.Command values.
func (s *UinputSink) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, unsafe.Sizeof(li.InputEvent{}))
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		n, err := unix.Read(int(s.file.Fd()), buf)
		if err != nil {
			if err == unix.EAGAIN {
				select {
				case <-s.closeCh:
					return
				default:
				}
				continue
			}
			return
		}
		if n != len(buf) {
			continue
		}
		ev := *(*li.InputEvent)(unsafe.Pointer(&buf[0]))
		s.handleEvent(ev)
	}
}

const evUinput = 0x0101 // EV_UINPUT
const (
	uiFFUpload = 1
	uiFFErase  = 2
)

func (s *UinputSink) handleEvent(ev li.InputEvent) {
	switch ev.Type {
	case evUinput:
		switch ev.Code {
		case uiFFUpload:
			s.handleUpload(uint32(ev.Value))
		case uiFFErase:
			s.handleErase(uint32(ev.Value))
		}
	case li.EvFF:
		s.handlePlay(uint32(ev.Code), ev.Value)
	}
}

func (s *UinputSink) handleUpload(requestID uint32) {
	up := li.UinputFFUpload{RequestID: requestID}
	if err := ioctlPtr(s.file.Fd(), li.UIBeginFFUpload, unsafe.Pointer(&up)); err != nil {
		return
	}
	up.RetVal = 0

	s.mu.Lock()
	s.effects[uint32(up.Effect.ID)] = up.Effect
	s.mu.Unlock()

	ioctlPtr(s.file.Fd(), li.UIEndFFUpload, unsafe.Pointer(&up))
}

func (s *UinputSink) handleErase(requestID uint32) {
	er := li.UinputFFErase{RequestID: requestID}
	if err := ioctlPtr(s.file.Fd(), li.UIBeginFFErase, unsafe.Pointer(&er)); err != nil {
		return
	}
	er.RetVal = 0

	s.mu.Lock()
	delete(s.effects, er.EffectID)
	s.mu.Unlock()

	ioctlPtr(s.file.Fd(), li.UIEndFFErase, unsafe.Pointer(&er))
}

func (s *UinputSink) handlePlay(effectID uint32, value int32) {
	if value == 0 {
		return // stop: CtrlAssist rumble bridge has no sustained-effect model to cancel
	}
	s.mu.Lock()
	effect, ok := s.effects[effectID]
	s.mu.Unlock()
	if !ok || effect.Type != li.FFRumble {
		return
	}
	r := effect.Rumble()
	cmd := rumble.Command{Strong: r.StrongMagnitude, Weak: r.WeakMagnitude, DurationMs: uint32(effect.Replay.Length)}
	select {
	case s.rumbleCh <- cmd:
	case <-s.closeCh:
	default:
		// drop: a saturated channel means the bridge is falling behind,
		// and rumble is explicitly best-effort.
	}
}
