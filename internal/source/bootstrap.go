//go:build linux

package source

import (
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// knownBootstrapVendor is a USB vendor that ships pads (e.g. Nintendo's
// Switch Pro Controller family) in a restricted HID report mode: until a
// vendor output report switches them into full-report mode, the kernel's
// joystick driver sees too few axes to pass the MinButtons/MinAxes check in
// Open. This mirrors the NewController/SendInitSequence flow
// (controller.go), generalized from a single Nintendo Pro Controller 2 to
// any device from knownBootstrapVendor.
const knownBootstrapVendor = 0x057e // Nintendo

// Bootstrap best-effort switches any attached, not-yet-initialized
// known-vendor USB gamepad into full-report mode, via the same raw output
// report handshake Controller.SendInitSequence used. It is a
// pre-step run once before the normal evdev Open(path) call; failures are
// logged and swallowed; most controllers need no bootstrap at all; a nil
// ctx is never dereferenced (Bootstrap owns its own gousb.Context).
func Bootstrap(log *zap.SugaredLogger) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(knownBootstrapVendor)
	})
	if err != nil {
		if log != nil {
			log.Debugw("usb bootstrap scan failed", "error", err)
		}
		return
	}

	for _, dev := range devs {
		if err := bootstrapOne(dev); err != nil && log != nil {
			log.Debugw("usb bootstrap handshake failed", "error", err)
		}
		dev.Close()
	}
}

func bootstrapOne(dev *gousb.Device) error {
	cfg, err := dev.Config(1)
	if err != nil {
		return err
	}
	defer cfg.Close()

	intf, err := cfg.Interface(1, 0)
	if err != nil {
		return err
	}
	defer intf.Close()

	var epOut *gousb.OutEndpoint
	for _, e := range intf.Setting.Endpoints {
		if e.Direction == gousb.EndpointDirectionOut && e.TransferType == gousb.TransferTypeBulk {
			epOut, err = intf.OutEndpoint(e.Number)
			if err != nil {
				return err
			}
		}
	}
	if epOut == nil {
		return nil
	}

	// Switch input-report mode to 0x30 (full controller state) with a
	// single output report.
	packet := byte(0)
	fullReportMode := []byte{0x01, packet, 0x00, 0x01, 0x40, 0x40, 0x00, 0x01, 0x40, 0x40, 0x03, 0x30}
	if _, err := epOut.Write(fullReportMode); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return nil
}
