// Package codec converts between encoded images and photo buffers. The
// transform engines never see encoded data; they depend only on the
// Decoder and Encoder capabilities defined here.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/davesmith10/photofx/internal/photo"
)

// ErrUnknownFormat is returned for an output format with no encoder.
var ErrUnknownFormat = errors.New("unknown image format")

// Decoder turns encoded image bytes into an RGBA photo.
type Decoder interface {
	Decode(data []byte) (*photo.Photo, error)
}

// Encoder serializes a photo.
type Encoder interface {
	Encode(p *photo.Photo) ([]byte, error)
	MediaType() string
}

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// IsJPEG reports whether data starts with a JPEG SOI marker.
func IsJPEG(data []byte) bool {
	return bytes.HasPrefix(data, jpegMagic)
}

// FormatFor returns the encoder for a format name or file name. Names
// are matched on their extension, case-insensitively.
func FormatFor(name string) (Encoder, error) {
	format := strings.ToLower(name)
	if ext := filepath.Ext(format); ext != "" {
		format = ext[1:]
	}
	switch format {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "jpg", "jpeg":
		return &JPEG{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}
