//go:build linux

package source

import (
	"context"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ctrlassist/ctrlassist/internal/control"
	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
	li "github.com/ctrlassist/ctrlassist/internal/linuxinput"
	"github.com/ctrlassist/ctrlassist/internal/sink"
)

// EvdevSource is the real Gamepad Source, backed by a /dev/input/event*
// node. Its capability probe (EVIOCGBIT/EVIOCGABS/EVIOCGID) follows the
// ericls-ebiten gamepad_linux.go reference; its rumble path uploads an
// FF_RUMBLE effect the way the sink's force-feedback handler expects to
// receive one (linuxinput package).
type EvdevSource struct {
	fd       int
	desc     Descriptor
	absRange map[uint16][2]int32 // code -> [min,max]

	events  chan Event
	closeCh chan struct{}
}

// Open opens path (typically /dev/input/eventN), probes its control set,
// and rejects it if it has fewer than MinButtons buttons or MinAxes axes
// from the standard layout. A background goroutine begins
// forwarding decoded events immediately.
func Open(path string) (*EvdevSource, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, ctrlerr.Wrap(ctrlerr.DeviceOpen, err, "open "+path)
	}

	s := &EvdevSource{
		fd:       fd,
		absRange: make(map[uint16][2]int32),
		events:   make(chan Event, 64),
		closeCh:  make(chan struct{}),
	}

	if err := s.probe(path); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if s.desc.ButtonCount < MinButtons || s.desc.AxisCount < MinAxes {
		unix.Close(fd)
		return nil, ctrlerr.Wrap(ctrlerr.DeviceOpen, nil, "device lacks the minimum control set")
	}

	go s.readLoop()
	return s, nil
}

func isBitSet(bits []byte, bit int) bool {
	return bits[bit/8]&(1<<(uint(bit)%8)) != 0
}

func (s *EvdevSource) probe(path string) error {
	const evCnt, keyCnt, absCnt = 0x20, 0x300, 0x40

	evBits := make([]byte, (evCnt+7)/8)
	keyBits := make([]byte, (keyCnt+7)/8)
	absBits := make([]byte, (absCnt+7)/8)

	if err := s.ioctlBuf(li.EVIOCGBIT(0, len(evBits)), evBits); err != nil {
		return ctrlerr.Wrap(ctrlerr.DeviceOpen, err, "EVIOCGBIT(0)")
	}
	if err := s.ioctlBuf(li.EVIOCGBIT(li.EvKey, len(keyBits)), keyBits); err != nil {
		return ctrlerr.Wrap(ctrlerr.DeviceOpen, err, "EVIOCGBIT(EV_KEY)")
	}
	if err := s.ioctlBuf(li.EVIOCGBIT(li.EvAbs, len(absBits)), absBits); err != nil {
		return ctrlerr.Wrap(ctrlerr.DeviceOpen, err, "EVIOCGBIT(EV_ABS)")
	}

	var id li.InputID
	s.ioctlBuf(li.EVIOCGID, (*(*[unsafe.Sizeof(id)]byte)(unsafe.Pointer(&id)))[:])

	name := make([]byte, 128)
	s.ioctlBuf(li.EVIOCGNAME(len(name)), name)

	caps := sink.Capabilities{
		Buttons:  make(map[control.Button]bool),
		Axes:     make(map[control.Axis]bool),
		Triggers: make(map[control.Trigger]bool),
	}

	buttonCount := 0
	for code, b := range buttonCodes {
		if isBitSet(keyBits, int(code)) {
			buttonCount++
			caps.Buttons[b] = true
		}
	}
	axisCount := 0
	for code, axis := range axisCodes {
		if !isBitSet(absBits, int(code)) {
			continue
		}
		axisCount++
		s.recordAbsRange(code)
		caps.Axes[axis] = true
	}
	for code, t := range triggerCodes {
		if isBitSet(absBits, int(code)) {
			s.recordAbsRange(code)
			caps.Triggers[t] = true
		}
	}

	s.desc = Descriptor{
		Path:        path,
		Name:        cString(name),
		Vendor:      id.Vendor,
		Product:     id.Product,
		Version:     id.Version,
		ButtonCount: buttonCount,
		AxisCount:   axisCount,
		Caps:        caps,
	}
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func (s *EvdevSource) recordAbsRange(code uint16) {
	var info li.InputAbsinfo
	if err := s.ioctlBuf(li.EVIOCGABS(int(code)), (*(*[unsafe.Sizeof(info)]byte)(unsafe.Pointer(&info)))[:]); err != nil {
		s.absRange[code] = [2]int32{-1, 1}
		return
	}
	if info.Maximum == info.Minimum {
		s.absRange[code] = [2]int32{-1, 1}
		return
	}
	s.absRange[code] = [2]int32{info.Minimum, info.Maximum}
}

func (s *EvdevSource) ioctlBuf(req uintptr, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

func (s *EvdevSource) Events() <-chan Event { return s.events }

func (s *EvdevSource) Identity() Descriptor { return s.desc }

func (s *EvdevSource) readLoop() {
	defer close(s.events)

	buf := make([]byte, unsafe.Sizeof(li.InputEvent{}))
	pfd := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		n, err := unix.Poll(pfd, 200)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 {
			continue
		}

		read, err := unix.Read(s.fd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				continue
			}
			// Disconnection surfaces as end-of-sequence.
			return
		}
		if read != len(buf) {
			continue
		}

		ev := *(*li.InputEvent)(unsafe.Pointer(&buf[0]))
		s.dispatch(ev)
	}
}

func (s *EvdevSource) dispatch(ev li.InputEvent) {
	ts := time.Unix(ev.Sec, ev.Usec*1000)

	switch ev.Type {
	case li.EvKey:
		if b, ok := buttonCodes[ev.Code]; ok {
			s.events <- Event{Control: control.ButtonControl(b), Value: control.BoolValue(ev.Value != 0), Timestamp: ts}
		}
	case li.EvAbs:
		if a, ok := axisCodes[ev.Code]; ok {
			s.events <- Event{Control: control.AxisControl(a), Value: control.ScalarValue(s.normalizeAxis(ev.Code, ev.Value)), Timestamp: ts}
		} else if t, ok := triggerCodes[ev.Code]; ok {
			s.events <- Event{Control: control.TriggerControl(t), Value: control.ScalarValue(s.normalizeTrigger(ev.Code, ev.Value)), Timestamp: ts}
		}
	}
}

func (s *EvdevSource) normalizeAxis(code uint16, raw int32) float64 {
	r := s.absRange[code]
	min, max := float64(r[0]), float64(r[1])
	if max == min {
		return 0
	}
	v := (float64(raw) - min) / (max - min)
	return clamp(v*2-1, -1, 1)
}

func (s *EvdevSource) normalizeTrigger(code uint16, raw int32) float64 {
	r := s.absRange[code]
	min, max := float64(r[0]), float64(r[1])
	if max == min {
		return 0
	}
	return clamp((float64(raw)-min)/(max-min), 0, 1)
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

// SendRumble uploads an FF_RUMBLE effect and triggers playback via EVIOCSFF
// + an EV_FF play event, the reverse side of the sink's force-feedback
// handler.
func (s *EvdevSource) SendRumble(ctx context.Context, strong, weak uint16, durationMs uint32) error {
	effect := li.FFEffect{
		Type:    li.FFRumble,
		ID:      -1,
		Replay:  li.FFReplay{Length: uint16(durationMs)},
		Trigger: li.FFTrigger{Button: 0, Interval: 0},
	}
	effect.SetRumble(li.FFRumbleEffect{StrongMagnitude: strong, WeakMagnitude: weak})

	if err := s.ioctlBuf(li.EVIOCSFF, (*(*[unsafe.Sizeof(effect)]byte)(unsafe.Pointer(&effect)))[:]); err != nil {
		return ctrlerr.Wrap(ctrlerr.RumbleSend, err, "EVIOCSFF upload")
	}

	playEvent := li.InputEvent{Type: li.EvFF, Code: uint16(effect.ID), Value: 1}
	buf := (*(*[unsafe.Sizeof(playEvent)]byte)(unsafe.Pointer(&playEvent)))[:]
	if _, err := unix.Write(s.fd, buf); err != nil {
		return ctrlerr.Wrap(ctrlerr.RumbleSend, err, "EV_FF play")
	}
	return nil
}

// Grab issues EVIOCGRAB(1): while held, this fd is the only reader of the
// device's events, keeping other listeners (a game reading the physical
// directly, Steam Input) from double-processing what CtrlAssist is about
// to remix.
func (s *EvdevSource) Grab() error {
	return s.grab(1)
}

// Release undoes Grab (EVIOCGRAB(0)).
func (s *EvdevSource) Release() error {
	return s.grab(0)
}

func (s *EvdevSource) grab(v int32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), li.EVIOCGRAB, uintptr(v))
	if errno != 0 {
		return ctrlerr.Wrap(ctrlerr.Permission, errno, "EVIOCGRAB")
	}
	return nil
}

func (s *EvdevSource) Close() error {
	select {
	case <-s.closeCh:
	default:
		close(s.closeCh)
	}
	return syscall.Close(s.fd)
}
