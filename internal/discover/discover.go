// Package discover implements the device enumeration the `list` CLI
// command needs: finding candidate /dev/input/eventN nodes and
// reading their identity from sysfs without opening (and thus grabbing or
// disturbing) the device itself. The sysfs-walking idiom is carried over
// from hidraw.go's GetEvdevForUSB / matchesUSBDevice.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ctrlassist/ctrlassist/internal/ctrlerr"
)

// Candidate is one enumerated input device.
type Candidate struct {
	Path                     string
	Name                     string
	Vendor, Product, Version uint16
}

const inputClassPath = "/sys/class/input"

// Enumerate lists every eventN node under /dev/input, reading Name and the
// vendor/product/version id triple from the matching sysfs device
// directory. Entries whose sysfs name can't be read are skipped rather
// than failing the whole enumeration, since a single transient or
// permission-denied node shouldn't hide the rest; an id attribute that
// can't be read is left as 0.
func Enumerate() ([]Candidate, error) {
	entries, err := os.ReadDir(inputClassPath)
	if err != nil {
		return nil, ctrlerr.Wrap(ctrlerr.Io, err, "reading "+inputClassPath)
	}

	var out []Candidate
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		c, ok := readCandidate(e.Name())
		if !ok {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func readCandidate(name string) (Candidate, bool) {
	devDir := filepath.Join(inputClassPath, name, "device")

	nameBytes, err := os.ReadFile(filepath.Join(devDir, "name"))
	if err != nil {
		return Candidate{}, false
	}

	vendor, _ := readHexFile(filepath.Join(devDir, "id", "vendor"))
	product, _ := readHexFile(filepath.Join(devDir, "id", "product"))
	version, _ := readHexFile(filepath.Join(devDir, "id", "version"))

	return Candidate{
		Path:    filepath.Join("/dev/input", name),
		Name:    strings.TrimSpace(string(nameBytes)),
		Vendor:  vendor,
		Product: product,
		Version: version,
	}, true
}

func readHexFile(path string) (uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
