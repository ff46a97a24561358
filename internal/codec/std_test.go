package codec

import (
	"errors"
	"image"
	imgcolor "image/color"
	"strings"
	"testing"

	"github.com/davesmith10/photofx/internal/photo"
	"github.com/google/go-cmp/cmp"
)

func checker(w, h uint32, alpha bool) *photo.Photo {
	p := photo.New(w, h)
	for y := 0; y < int(h); y++ {
		for x := 0; x < int(w); x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			a := uint8(255)
			if alpha {
				a = uint8(100 + x)
			}
			p.Set(x, y, v, uint8(x*10), uint8(y*10), a)
		}
	}
	return p
}

func TestLosslessRoundTrip(t *testing.T) {
	tests := []struct {
		enc   Encoder
		alpha bool
	}{
		{PNG, true},
		{TIFF, true},
		{BMP, false},
	}
	for _, tt := range tests {
		enc := tt.enc
		t.Run(enc.MediaType(), func(t *testing.T) {
			in := checker(5, 4, tt.alpha)
			data, err := enc.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := Std{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out.Width != in.Width || out.Height != in.Height {
				t.Fatalf("decoded %dx%d", out.Width, out.Height)
			}
			if diff := cmp.Diff(in.Pixels, out.Pixels); diff != "" {
				t.Errorf("pixels differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromImageConvertsAndOffsets(t *testing.T) {
	src := image.NewGray(image.Rect(10, 20, 12, 21))
	src.SetGray(10, 20, imgcolor.Gray{Y: 7})
	src.SetGray(11, 20, imgcolor.Gray{Y: 200})

	p, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	want := []byte{7, 7, 7, 255, 200, 200, 200, 255}
	if diff := cmp.Diff(want, p.Pixels); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFromImageSubImages(t *testing.T) {
	full := ToImage(checker(4, 4, true))
	tests := []struct {
		name         string
		rect         image.Rectangle
		x0, y0       int
		wantW, wantH uint32
	}{
		{"top rows", image.Rect(0, 0, 4, 2), 0, 0, 4, 2},
		{"bottom rows", image.Rect(0, 2, 4, 4), 0, 2, 4, 2},
		{"left columns", image.Rect(0, 0, 2, 4), 0, 0, 2, 4},
		{"interior", image.Rect(1, 1, 3, 3), 1, 1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromImage(full.SubImage(tt.rect))
			if err != nil {
				t.Fatalf("FromImage: %v", err)
			}
			if p.Width != tt.wantW || p.Height != tt.wantH {
				t.Fatalf("got %dx%d, want %dx%d", p.Width, p.Height, tt.wantW, tt.wantH)
			}
			for y := 0; y < int(p.Height); y++ {
				for x := 0; x < int(p.Width); x++ {
					c := full.NRGBAAt(tt.x0+x, tt.y0+y)
					want := []byte{c.R, c.G, c.B, c.A}
					o := p.Offset(x, y)
					if diff := cmp.Diff(want, p.Pixels[o:o+4]); diff != "" {
						t.Errorf("pixel (%d,%d) (-want +got):\n%s", x, y, diff)
					}
				}
			}
		})
	}

	// The fast path must copy: mutating the photo leaves the source intact.
	p, err := FromImage(full.SubImage(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatal(err)
	}
	p.Pixels[0] ^= 0xff
	if full.Pix[0] == p.Pixels[0] {
		t.Error("FromImage shared the source buffer")
	}
}

func TestToImageSharesBuffer(t *testing.T) {
	p := checker(3, 3, true)
	img := ToImage(p)
	img.Pix[0] = 42
	if p.Pixels[0] != 42 {
		t.Error("ToImage copied the buffer")
	}
	if got := img.NRGBAAt(1, 2); got.R != p.Pixels[p.Offset(1, 2)] {
		t.Errorf("NRGBAAt(1,2) = %v", got)
	}
}

func TestStdDecodeGarbage(t *testing.T) {
	if _, err := (Std{}).Decode([]byte("nope")); err == nil {
		t.Error("expected error")
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]string{
		"png":         "image/png",
		"out.PNG":     "image/png",
		"a/b/pic.bmp": "image/bmp",
		"scan.tif":    "image/tiff",
		"TIFF":        "image/tiff",
		"photo.jpeg":  "image/jpeg",
		"jpg":         "image/jpeg",
	}
	for name, want := range tests {
		enc, err := FormatFor(name)
		if err != nil {
			t.Errorf("FormatFor(%q): %v", name, err)
			continue
		}
		if enc.MediaType() != want {
			t.Errorf("FormatFor(%q) = %s, want %s", name, enc.MediaType(), want)
		}
	}
	if _, err := FormatFor("x.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFor(gif) err = %v", err)
	}
}

func TestIsJPEG(t *testing.T) {
	if !IsJPEG([]byte{0xFF, 0xD8, 0xFF, 0xE0}) {
		t.Error("JFIF header not detected")
	}
	if IsJPEG([]byte("\x89PNG")) {
		t.Error("PNG detected as JPEG")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	in := checker(4, 2, true)
	url, err := DataURL(in, PNG)
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,iVBORw0") {
		t.Errorf("unexpected prefix: %.40s", url)
	}
	if strings.ContainsAny(url, "\r\n") {
		t.Error("data URL contains line breaks")
	}

	out, err := ParseDataURL(url, Std{})
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if diff := cmp.Diff(in.Pixels, out.Pixels); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseDataURLErrors(t *testing.T) {
	for _, s := range []string{
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,rawdata",
		"data:image/png;base64,!!!",
	} {
		if _, err := ParseDataURL(s, Std{}); err == nil {
			t.Errorf("ParseDataURL(%q): expected error", s)
		}
	}
}
