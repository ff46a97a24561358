// Package transform implements single-pass, per-pixel color transforms on
// RGBA photos: desaturation, monochrome tinting and binary thresholding.
//
// Two engines are provided. Compat reproduces the reference photo editor
// byte for byte, including two known defects: the scan stops before the
// final pixel, and Monochrome writes its blue result into the green slot.
// Corrected scans every pixel and writes each channel to its own slot.
// New code should use Corrected; Compat exists for output compatibility.
package transform

import "github.com/davesmith10/photofx/internal/photo"

// DefaultCutoff is the threshold used when none is configured.
const DefaultCutoff = 128

// ChannelOffset is an additive per-channel adjustment applied on top of a
// monochrome base value. Values above 255 are allowed; the result
// saturates when applied.
type ChannelOffset struct {
	R uint32 `json:"r"`
	G uint32 `json:"g"`
	B uint32 `json:"b"`
}

// Engine is a set of color transforms sharing one scan policy.
type Engine struct {
	name          string
	skipLastPixel bool
	blueIntoGreen bool
}

var (
	// Compat matches the reference implementation, defects included.
	Compat = Engine{name: "compat", skipLastPixel: true, blueIntoGreen: true}

	// Corrected visits every pixel and writes blue to the blue channel.
	Corrected = Engine{name: "corrected"}
)

// ByName returns the engine called name ("compat" or "corrected").
func ByName(name string) (Engine, bool) {
	switch name {
	case Compat.name:
		return Compat, true
	case Corrected.name:
		return Corrected, true
	}
	return Engine{}, false
}

// Name returns "compat" or "corrected".
func (e Engine) Name() string { return e.name }

// end returns the exclusive upper bound of pixel start offsets to visit.
func (e Engine) end(p *photo.Photo) int {
	n := len(p.Pixels) - len(p.Pixels)%photo.BytesPerPixel
	if e.skipLastPixel {
		n -= photo.BytesPerPixel
	}
	return n
}

// Grayscale desaturates every visited pixel to (min(r,g,b)+max(r,g,b))/2.
// Alpha is untouched.
func (e Engine) Grayscale(p *photo.Photo) {
	p.Validate()
	pix := p.Pixels
	for i, n := 0, e.end(p); i < n; i += photo.BytesPerPixel {
		gray := desaturate(pix[i], pix[i+1], pix[i+2])
		pix[i] = gray
		pix[i+1] = gray
		pix[i+2] = gray
	}
}

// Monochrome replaces each channel with avg(r,g,b) plus that channel's
// offset, saturating at 255.
func (e Engine) Monochrome(p *photo.Photo, off ChannelOffset) {
	p.Validate()
	pix := p.Pixels
	blue := 2
	if e.blueIntoGreen {
		blue = 1
	}
	for i, n := 0, e.end(p); i < n; i += photo.BytesPerPixel {
		avg := (uint32(pix[i]) + uint32(pix[i+1]) + uint32(pix[i+2])) / 3
		pix[i] = addSat(avg, off.R)
		pix[i+1] = addSat(avg, off.G)
		pix[i+blue] = addSat(avg, off.B)
	}
}

// Tint is Monochrome under the name used for catalog presets.
func (e Engine) Tint(p *photo.Photo, off ChannelOffset) {
	e.Monochrome(p, off)
}

// Threshold sets R, G and B to 255 when the desaturated value is at least
// cutoff and to 0 otherwise. Alpha is untouched.
func (e Engine) Threshold(p *photo.Photo, cutoff uint8) {
	p.Validate()
	pix := p.Pixels
	for i, n := 0, e.end(p); i < n; i += photo.BytesPerPixel {
		var v uint8
		if desaturate(pix[i], pix[i+1], pix[i+2]) >= cutoff {
			v = 255
		}
		pix[i] = v
		pix[i+1] = v
		pix[i+2] = v
	}
}

func desaturate(r, g, b uint8) uint8 {
	lo := min(r, g, b)
	hi := max(r, g, b)
	return uint8((uint16(lo) + uint16(hi)) / 2)
}

// addSat returns base+off clamped to 255. base is at most 255, so the sum
// fits in 64 bits for any offset.
func addSat(base, off uint32) uint8 {
	s := uint64(base) + uint64(off)
	if s > 255 {
		return 255
	}
	return uint8(s)
}
