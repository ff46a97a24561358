package color

/*
#cgo pkg-config: lcms2
#include <lcms2.h>
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// Lcms2Version returns the encoded CMM version from lcms2.
func Lcms2Version() int {
	return int(C.cmsGetEncodedCMMversion())
}

// Intent constants matching lcms2.
const (
	IntentPerceptual           = 0
	IntentRelativeColorimetric = 1
	IntentSaturation           = 2
	IntentAbsoluteColorimetric = 3
)

// ParseIntent converts a string intent name to an lcms2 intent constant.
func ParseIntent(s string) (int, error) {
	switch s {
	case "perceptual":
		return IntentPerceptual, nil
	case "relative":
		return IntentRelativeColorimetric, nil
	case "saturation":
		return IntentSaturation, nil
	case "absolute":
		return IntentAbsoluteColorimetric, nil
	default:
		return 0, fmt.Errorf("unknown rendering intent: %q", s)
	}
}

// Transform converts packed RGB pixels from an embedded profile to sRGB,
// the space every transform in this module assumes.
type Transform struct {
	hSrc       C.cmsHPROFILE
	hDst       C.cmsHPROFILE
	hTransform C.cmsHTRANSFORM
}

// NewToSRGB creates an RGB→sRGB transform from raw ICC profile data.
func NewToSRGB(srcICC []byte, intent int) (*Transform, error) {
	if len(srcICC) == 0 {
		return nil, errors.New("lcms2: empty source profile")
	}
	hSrc := C.cmsOpenProfileFromMem(unsafe.Pointer(&srcICC[0]), C.cmsUInt32Number(len(srcICC)))
	if hSrc == nil {
		return nil, errors.New("lcms2: failed to open source profile")
	}

	hDst := C.cmsCreate_sRGBProfile()
	if hDst == nil {
		C.cmsCloseProfile(hSrc)
		return nil, errors.New("lcms2: failed to create sRGB profile")
	}

	hTransform := C.cmsCreateTransform(
		hSrc, C.TYPE_RGB_8,
		hDst, C.TYPE_RGB_8,
		C.cmsUInt32Number(intent),
		C.cmsFLAGS_NOCACHE,
	)
	if hTransform == nil {
		C.cmsCloseProfile(hDst)
		C.cmsCloseProfile(hSrc)
		return nil, errors.New("lcms2: failed to create transform")
	}

	t := &Transform{
		hSrc:       hSrc,
		hDst:       hDst,
		hTransform: hTransform,
	}
	runtime.SetFinalizer(t, (*Transform).Close)
	return t, nil
}

// TransformPixels converts RGB pixels row by row into a new buffer.
// src must be width*height*3 bytes.
func (t *Transform) TransformPixels(src []byte, width, height int) ([]byte, error) {
	if t.hTransform == nil {
		return nil, errors.New("lcms2: transform is closed")
	}
	expectedSrc := width * height * 3
	if len(src) != expectedSrc {
		return nil, fmt.Errorf("expected %d RGB bytes, got %d", expectedSrc, len(src))
	}

	dst := make([]byte, len(src))
	stride := width * 3
	for y := 0; y < height && stride > 0; y++ {
		off := y * stride
		C.cmsDoTransform(
			t.hTransform,
			unsafe.Pointer(&src[off]),
			unsafe.Pointer(&dst[off]),
			C.cmsUInt32Number(width),
		)
	}

	return dst, nil
}

// Close releases lcms2 resources.
func (t *Transform) Close() {
	if t.hTransform != nil {
		C.cmsDeleteTransform(t.hTransform)
		t.hTransform = nil
	}
	if t.hDst != nil {
		C.cmsCloseProfile(t.hDst)
		t.hDst = nil
	}
	if t.hSrc != nil {
		C.cmsCloseProfile(t.hSrc)
		t.hSrc = nil
	}
}

// SRGBProfile serializes lcms2's built-in sRGB profile, for embedding in
// encoded output.
func SRGBProfile() ([]byte, error) {
	h := C.cmsCreate_sRGBProfile()
	if h == nil {
		return nil, errors.New("lcms2: failed to create sRGB profile")
	}
	defer C.cmsCloseProfile(h)

	var size C.cmsUInt32Number
	if C.cmsSaveProfileToMem(h, nil, &size) == 0 || size == 0 {
		return nil, errors.New("lcms2: failed to size sRGB profile")
	}
	buf := C.malloc(C.size_t(size))
	defer C.free(buf)
	if C.cmsSaveProfileToMem(h, buf, &size) == 0 {
		return nil, errors.New("lcms2: failed to save sRGB profile")
	}
	return C.GoBytes(buf, C.int(size)), nil
}
