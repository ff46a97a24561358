package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG, used for files libjpeg cannot convert
	"image/png"
	"math"

	"github.com/davesmith10/photofx/internal/photo"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP
)

// Std decodes every format registered with the image package (PNG, GIF,
// JPEG, BMP, TIFF, WebP) in pure Go.
type Std struct{}

// Decode implements Decoder.
func (Std) Decode(data []byte) (*photo.Photo, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	p, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	return p, nil
}

// FromImage converts any image to a packed, non-premultiplied RGBA photo.
func FromImage(img image.Image) (*photo.Photo, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if uint64(w) > math.MaxUint32 || uint64(h) > math.MaxUint32 {
		return nil, fmt.Errorf("image of %dx%d is too large", w, h)
	}

	// A sub-image shares its parent's Pix, which may run past the last row.
	size := w * h * photo.BytesPerPixel
	if n, ok := img.(*image.NRGBA); ok && n.Stride == w*photo.BytesPerPixel &&
		b.Min == (image.Point{}) && len(n.Pix) >= size {
		pix := make([]byte, size)
		copy(pix, n.Pix[:size])
		return photo.FromPixels(pix, uint32(w), uint32(h)), nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return photo.FromPixels(dst.Pix, uint32(w), uint32(h)), nil
}

// ToImage wraps the photo's buffer as an *image.NRGBA without copying.
func ToImage(p *photo.Photo) *image.NRGBA {
	p.Validate()
	w, h := int(p.Width), int(p.Height)
	return &image.NRGBA{
		Pix:    p.Pixels,
		Stride: w * photo.BytesPerPixel,
		Rect:   image.Rect(0, 0, w, h),
	}
}

type stdEncoder struct {
	mediaType string
	encode    func(*bytes.Buffer, image.Image) error
}

func (e stdEncoder) Encode(p *photo.Photo) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.encode(&buf, ToImage(p)); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", e.mediaType, err)
	}
	return buf.Bytes(), nil
}

func (e stdEncoder) MediaType() string { return e.mediaType }

// Pure Go encoders.
var (
	PNG Encoder = stdEncoder{
		mediaType: "image/png",
		encode: func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		},
	}
	BMP Encoder = stdEncoder{
		mediaType: "image/bmp",
		encode: func(buf *bytes.Buffer, img image.Image) error {
			return bmp.Encode(buf, img)
		},
	}
	TIFF Encoder = stdEncoder{
		mediaType: "image/tiff",
		encode: func(buf *bytes.Buffer, img image.Image) error {
			return tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
		},
	}
)
