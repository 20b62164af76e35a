package sink

// Identity is the {vendor, product, version, name} record used to register
// the virtual pad. DefaultIdentity is the synthetic identity;
// spoofed variants are built from a physical's own identity at startup
// (spoofing changes identity, not capabilities).
type Identity struct {
	Vendor, Product, Version uint16
	Name                     string
}

// DefaultIdentity is used when --spoof=none (the default).
var DefaultIdentity = Identity{
	Vendor:  0x045e,
	Product: 0x0001,
	Version: 1,
	Name:    "CtrlAssist Virtual Gamepad",
}
