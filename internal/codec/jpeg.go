package codec

import (
	"fmt"

	"github.com/davesmith10/photofx/internal/color"
	"github.com/davesmith10/photofx/internal/jpeg"
	"github.com/davesmith10/photofx/internal/logging"
	"github.com/davesmith10/photofx/internal/photo"
)

// JPEG decodes and encodes through libjpeg. Decoding honors an embedded
// RGB ICC profile by converting the pixels to sRGB with lcms2.
type JPEG struct {
	Intent        int    // lcms2 rendering intent for source profiles
	SourceProfile []byte // optional: replaces the embedded profile, or supplies one
	Quality       int    // 1-100, default 85
	Subsample     bool   // 4:2:0 chroma subsampling
	Progressive   bool
	EmbedSRGB     bool // embed lcms2's sRGB profile in the output
}

// Decode implements Decoder. Every pixel comes out opaque.
func (j *JPEG) Decode(data []byte) (*photo.Photo, error) {
	decoded, err := jpeg.DecodeRGB(data)
	if err != nil {
		return nil, err
	}

	rgb := decoded.Pixels
	icc := decoded.ICC
	if j.SourceProfile != nil {
		icc = j.SourceProfile
	}
	if icc != nil {
		rgb, err = j.toSRGB(decoded, icc)
		if err != nil {
			return nil, err
		}
	}

	p := photo.New(uint32(decoded.Width), uint32(decoded.Height))
	for i, o := 0, 0; i+2 < len(rgb); i, o = i+3, o+photo.BytesPerPixel {
		p.Pixels[o] = rgb[i]
		p.Pixels[o+1] = rgb[i+1]
		p.Pixels[o+2] = rgb[i+2]
		p.Pixels[o+3] = 255
	}
	return p, nil
}

// toSRGB converts decoded pixels from the source profile icc. Profiles
// that are not RGB are skipped: libjpeg has already expanded gray to RGB.
func (j *JPEG) toSRGB(decoded *jpeg.Decoded, icc []byte) ([]byte, error) {
	pi, err := color.ParseProfileInfo(icc)
	if err != nil {
		logging.Logger().Warn("ignoring invalid source ICC profile", "err", err)
		return decoded.Pixels, nil
	}
	if !pi.IsRGB() {
		logging.Logger().Warn("ignoring non-RGB source ICC profile", "colorspace", color.ColorSpaceName(pi.ColorSpace))
		return decoded.Pixels, nil
	}

	xform, err := color.NewToSRGB(icc, j.Intent)
	if err != nil {
		return nil, fmt.Errorf("color transform setup: %w", err)
	}
	defer xform.Close()

	rgb, err := xform.TransformPixels(decoded.Pixels, decoded.Width, decoded.Height)
	if err != nil {
		return nil, fmt.Errorf("color transform: %w", err)
	}
	logging.Logger().Debug("converted source profile to sRGB",
		"bytes", len(icc), "version", pi.Version, "override", j.SourceProfile != nil)
	return rgb, nil
}

// Encode implements Encoder. Alpha is dropped; JPEG has no alpha channel.
func (j *JPEG) Encode(p *photo.Photo) ([]byte, error) {
	p.Validate()
	rgb := make([]byte, 0, p.Len()*3)
	for i := 0; i+3 < len(p.Pixels); i += photo.BytesPerPixel {
		rgb = append(rgb, p.Pixels[i], p.Pixels[i+1], p.Pixels[i+2])
	}

	var icc []byte
	if j.EmbedSRGB {
		var err error
		icc, err = color.SRGBProfile()
		if err != nil {
			return nil, err
		}
	}

	return jpeg.EncodeRGB(rgb, int(p.Width), int(p.Height), icc, jpeg.EncoderOptions{
		Quality:     j.Quality,
		Subsample:   j.Subsample,
		Progressive: j.Progressive,
	})
}

// MediaType implements Encoder.
func (j *JPEG) MediaType() string { return "image/jpeg" }

// Auto sends JPEGs that libjpeg can convert to RGB through JPEG and
// everything else, CMYK JPEGs included, through Std.
type Auto struct {
	JPEG *JPEG // nil uses default settings
}

// Decode implements Decoder.
func (a Auto) Decode(data []byte) (*photo.Photo, error) {
	if IsJPEG(data) {
		info, err := jpeg.GetInfo(data)
		if err != nil {
			return nil, fmt.Errorf("reading JPEG header: %w", err)
		}
		if info.Decodable() {
			j := a.JPEG
			if j == nil {
				j = &JPEG{}
			}
			return j.Decode(data)
		}
		logging.Logger().Warn("libjpeg cannot convert color space, using pure Go decoder", "colorspace", info.ColorSpace)
	}
	return Std{}.Decode(data)
}
