// Package color inspects ICC profiles and converts embedded-profile RGB
// pixels to sRGB with lcms2.
package color

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	headerSize     = 128
	maxProfileSize = 4 << 20
	acspMagic      = 0x61637370 // 'acsp'
)

// ErrNotRGB is returned by LoadProfile for a profile whose device space is
// not RGB; only RGB profiles can describe a decoded photo.
var ErrNotRGB = errors.New("ICC profile is not an RGB profile")

// ProfileInfo holds the header fields of an ICC profile. The four-byte
// signatures are kept as written, trailing spaces included.
type ProfileInfo struct {
	Size       uint32
	Version    string
	ColorSpace string // "RGB ", "GRAY", "CMYK", ...
	PCS        string // "XYZ " or "Lab "
	Class      string // "mntr", "scnr", ...
}

// ParseProfileInfo validates the header of raw profile bytes.
func ParseProfileInfo(data []byte) (*ProfileInfo, error) {
	switch {
	case len(data) < headerSize:
		return nil, fmt.Errorf("ICC profile of %d bytes is shorter than its header", len(data))
	case len(data) > maxProfileSize:
		return nil, fmt.Errorf("ICC profile of %d bytes exceeds %d", len(data), maxProfileSize)
	}
	if sig := binary.BigEndian.Uint32(data[36:40]); sig != acspMagic {
		return nil, fmt.Errorf("bad ICC signature 0x%08x", sig)
	}

	sig := func(off int) string { return string(data[off : off+4]) }
	return &ProfileInfo{
		Size:       binary.BigEndian.Uint32(data[0:4]),
		Version:    fmt.Sprintf("%d.%d.%d", data[8], data[9]>>4, data[9]&0x0f),
		Class:      sig(12),
		ColorSpace: sig(16),
		PCS:        sig(20),
	}, nil
}

// IsRGB reports whether the profile describes RGB device values, the only
// kind NewToSRGB accepts.
func (p *ProfileInfo) IsRGB() bool {
	return p.ColorSpace == "RGB "
}

// LoadProfile reads an RGB source profile from disk, for use in place of
// (or in the absence of) a profile embedded in an image.
func LoadProfile(path string) ([]byte, *ProfileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading ICC profile: %w", err)
	}
	pi, err := ParseProfileInfo(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if !pi.IsRGB() {
		return nil, nil, fmt.Errorf("%s: %w (color space %s)", path, ErrNotRGB, ColorSpaceName(pi.ColorSpace))
	}
	return data, pi, nil
}

var colorSpaceNames = map[string]string{
	"RGB ": "RGB",
	"GRAY": "Grayscale",
	"CMYK": "CMYK",
	"Lab ": "CIELAB",
	"XYZ ": "CIEXYZ",
}

var profileClassNames = map[string]string{
	"mntr": "Display",
	"scnr": "Input",
	"prtr": "Output",
	"link": "DeviceLink",
	"spac": "ColorSpace",
	"abst": "Abstract",
	"nmcl": "NamedColor",
}

// ColorSpaceName returns a readable name for a color space signature, or
// the signature itself when it is not one of the common ones.
func ColorSpaceName(sig string) string {
	if name, ok := colorSpaceNames[sig]; ok {
		return name
	}
	return sig
}

// ProfileClassName returns a readable name for a profile class signature.
func ProfileClassName(sig string) string {
	if name, ok := profileClassNames[sig]; ok {
		return name
	}
	return sig
}
