package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/davesmith10/photofx/internal/photo"
)

// DataURL encodes p with enc and returns it as a base64 data URL, e.g.
// "data:image/png;base64,iVBORw0...".
func DataURL(p *photo.Photo, enc Encoder) (string, error) {
	data, err := enc.Encode(p)
	if err != nil {
		return "", err
	}
	return "data:" + enc.MediaType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ParseDataURL decodes the image carried by a base64 data URL.
func ParseDataURL(s string, dec Decoder) (*photo.Photo, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("data URL has no payload")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("data URL %q is not base64 encoded", meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return dec.Decode(data)
}
