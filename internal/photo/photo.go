// Package photo holds the raw pixel buffer shared by every transform.
package photo

import "fmt"

// BytesPerPixel is the number of interleaved channels: R, G, B, A.
const BytesPerPixel = 4

// Photo is the intermediate representation passed between the codecs and
// the transform engines. Pixels are stored as interleaved R,G,B,A bytes
// (4 bytes per pixel, row-major order, no row padding).
type Photo struct {
	Pixels []byte // len = Width * Height * 4
	Width  uint32
	Height uint32
}

// New allocates a zeroed (transparent black) photo.
func New(width, height uint32) *Photo {
	return &Photo{
		Pixels: make([]byte, int(width)*int(height)*BytesPerPixel),
		Width:  width,
		Height: height,
	}
}

// FromPixels wraps pix without copying. It panics if the length does not
// match the dimensions.
func FromPixels(pix []byte, width, height uint32) *Photo {
	p := &Photo{Pixels: pix, Width: width, Height: height}
	p.Validate()
	return p
}

// Validate panics when len(Pixels) != Width*Height*4. A mismatch is a
// caller defect, so there is no error to recover from.
func (p *Photo) Validate() {
	want := int(p.Width) * int(p.Height) * BytesPerPixel
	if len(p.Pixels) != want {
		panic(fmt.Sprintf("photo: %dx%d needs %d pixel bytes, got %d", p.Width, p.Height, want, len(p.Pixels)))
	}
}

// Clone returns a deep copy.
func (p *Photo) Clone() *Photo {
	pix := make([]byte, len(p.Pixels))
	copy(pix, p.Pixels)
	return &Photo{Pixels: pix, Width: p.Width, Height: p.Height}
}

// Len returns the number of pixels.
func (p *Photo) Len() int {
	return int(p.Width) * int(p.Height)
}

// Offset returns the index of the R byte of pixel (x, y).
func (p *Photo) Offset(x, y int) int {
	return (y*int(p.Width) + x) * BytesPerPixel
}

// At returns the four channels of pixel (x, y).
func (p *Photo) At(x, y int) (r, g, b, a uint8) {
	i := p.Offset(x, y)
	return p.Pixels[i], p.Pixels[i+1], p.Pixels[i+2], p.Pixels[i+3]
}

// Set writes the four channels of pixel (x, y).
func (p *Photo) Set(x, y int, r, g, b, a uint8) {
	i := p.Offset(x, y)
	p.Pixels[i] = r
	p.Pixels[i+1] = g
	p.Pixels[i+2] = b
	p.Pixels[i+3] = a
}

// Fill sets every pixel to the same color.
func (p *Photo) Fill(r, g, b, a uint8) {
	for i := 0; i+BytesPerPixel <= len(p.Pixels); i += BytesPerPixel {
		p.Pixels[i] = r
		p.Pixels[i+1] = g
		p.Pixels[i+2] = b
		p.Pixels[i+3] = a
	}
}

// SameGeometry reports whether q has the dimensions and buffer length of p.
func (p *Photo) SameGeometry(q *Photo) bool {
	return p.Width == q.Width && p.Height == q.Height && len(p.Pixels) == len(q.Pixels)
}
