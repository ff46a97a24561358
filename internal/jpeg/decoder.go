package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} decode_err_mgr;

static void decode_error_exit(j_common_ptr cinfo) {
    decode_err_mgr *e = (decode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    unsigned char *data;
    unsigned int   len;
} decode_marker;

typedef struct {
    int            width;
    int            height;
    int            src_color_space; // J_COLOR_SPACE of the file
    int            progressive;
    unsigned char *pixels;          // RGB output
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

// decode_rgb_jpeg decodes any YCbCr, RGB or grayscale JPEG to packed RGB
// and copies out the APP2 marker payloads.
static decode_result decode_rgb_jpeg(const unsigned char *buf, unsigned long buf_size,
                                      decode_marker *markers, int max_markers, int *marker_count) {
    decode_result res;
    memset(&res, 0, sizeof(res));
    *marker_count = 0;

    struct jpeg_decompress_struct cinfo;
    decode_err_mgr jerr;
    unsigned char *volatile pixels = NULL;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = decode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        res.pixels = NULL;
        free(pixels);
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_save_markers(&cinfo, JPEG_APP0+2, 0xFFFF);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    res.src_color_space = cinfo.jpeg_color_space;
    res.progressive = cinfo.progressive_mode;

    // Grayscale is expanded too; CMYK/YCCK makes libjpeg raise an error.
    cinfo.out_color_space = JCS_RGB;

    jpeg_start_decompress(&cinfo);

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;

    int row_stride = res.width * 3;
    res.pixels_size = (unsigned long)row_stride * res.height;
    pixels = (unsigned char *)malloc(res.pixels_size);
    if (pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    while (cinfo.output_scanline < cinfo.output_height) {
        unsigned char *row = pixels + (unsigned long)cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, &row, 1);
    }

    jpeg_saved_marker_ptr m = cinfo.marker_list;
    int count = 0;
    while (m != NULL && count < max_markers) {
        if (m->marker == (JPEG_APP0+2) && m->data_length > 0) {
            markers[count].data = (unsigned char *)malloc(m->data_length);
            if (markers[count].data != NULL) {
                memcpy(markers[count].data, m->data, m->data_length);
                markers[count].len = m->data_length;
                count++;
            }
        }
        m = m->next;
    }
    *marker_count = count;

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);
    res.pixels = pixels;
    return res;
}

static void free_decode_markers(decode_marker *markers, int count) {
    for (int i = 0; i < count; i++) {
        free(markers[i].data);
    }
}

static void free_decode_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// Decoded holds a JPEG decoded to packed RGB.
type Decoded struct {
	Width       int
	Height      int
	Pixels      []byte // RGB interleaved, len = Width * Height * 3
	ICC         []byte // reassembled ICC profile, nil if absent
	ColorSpace  string // color space stored in the file
	Progressive bool
}

// DecodeRGB decodes a JPEG from memory to RGB. Grayscale files are
// expanded to three equal channels.
func DecodeRGB(data []byte) (*Decoded, error) {
	if len(data) < 2 {
		return nil, errors.New("data too short for JPEG")
	}

	const maxMarkers = 256
	var cMarkers [maxMarkers]C.decode_marker
	var markerCount C.int

	res := C.decode_rgb_jpeg(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
		&cMarkers[0],
		C.int(maxMarkers),
		&markerCount,
	)
	defer C.free_decode_markers(&cMarkers[0], markerCount)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}
	defer C.free_decode_pixels(res.pixels)

	pixels := C.GoBytes(unsafe.Pointer(res.pixels), C.int(res.pixels_size))

	app2 := make([][]byte, 0, int(markerCount))
	for i := 0; i < int(markerCount); i++ {
		m := cMarkers[i]
		app2 = append(app2, C.GoBytes(unsafe.Pointer(m.data), C.int(m.len)))
	}
	icc, err := ExtractICC(app2)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	return &Decoded{
		Width:       int(res.width),
		Height:      int(res.height),
		Pixels:      pixels,
		ICC:         icc,
		ColorSpace:  colorSpaceName(int(res.src_color_space)),
		Progressive: res.progressive != 0,
	}, nil
}
