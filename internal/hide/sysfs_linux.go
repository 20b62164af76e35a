//go:build linux

package hide

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ResolveNodes returns evdevPath plus, if one can be found, the sibling
// /dev/hidrawN node for the same physical USB device, the pair of nodes
// System hide needs to narrow. Resolution walks
// up the evdev node's sysfs ancestry to find the owning USB bus/device
// numbers, then scans /sys/class/hidraw for a node with the same numbers,
// directly adapted from GetHidrawForUSB / matchesUSBDevice
// (hidraw.go), generalized from a single known controller's bus/addr to
// whatever two physicals are bound this session. A hidraw sibling that
// can't be resolved is simply omitted, not an error — mode hiding on
// the evdev node alone still serves the scoped-acquisition contract.
func ResolveNodes(evdevPath string) []string {
	nodes := []string{evdevPath}

	bus, addr, ok := busAddrOf(evdevPath)
	if !ok {
		return nodes
	}
	if hidraw, ok := findHidrawForUSB(bus, addr); ok {
		nodes = append(nodes, hidraw)
	}
	return nodes
}

func busAddrOf(evdevPath string) (bus, addr int, ok bool) {
	name := filepath.Base(evdevPath)
	sysDevice := filepath.Join("/sys/class/input", name, "device")
	return ancestorBusAddr(sysDevice)
}

func findHidrawForUSB(targetBus, targetAddr int) (string, bool) {
	const base = "/sys/class/hidraw"
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "hidraw") {
			continue
		}
		bus, addr, ok := ancestorBusAddr(filepath.Join(base, e.Name(), "device"))
		if ok && bus == targetBus && addr == targetAddr {
			return filepath.Join("/dev", e.Name()), true
		}
	}
	return "", false
}

// ancestorBusAddr walks up to 6 levels from startPath looking for a
// directory carrying busnum/devnum files.
func ancestorBusAddr(startPath string) (bus, addr int, ok bool) {
	realPath, err := filepath.EvalSymlinks(startPath)
	if err != nil {
		return 0, 0, false
	}

	dir := realPath
	for i := 0; i < 6; i++ {
		busFile := filepath.Join(dir, "busnum")
		devFile := filepath.Join(dir, "devnum")
		if b, ok1 := readIntFile(busFile); ok1 {
			if a, ok2 := readIntFile(devFile); ok2 {
				return b, a, true
			}
		}
		next := filepath.Clean(filepath.Join(dir, ".."))
		if next == dir || next == "/" {
			break
		}
		dir = next
	}
	return 0, 0, false
}

func readIntFile(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return v, true
}
