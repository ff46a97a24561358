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
} encode_err_mgr;

static void encode_error_exit(j_common_ptr cinfo) {
    encode_err_mgr *e = (encode_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    unsigned char *buf;
    unsigned long  size;
    int            has_error;
    char           error_msg[256];
} encode_result;

// encode_marker is one complete APP2 payload prepared on the Go side.
typedef struct {
    unsigned char *data;
    unsigned int   len;
} encode_marker;

// encode_rgb_jpeg encodes packed RGB pixels as YCbCr JPEG with the given
// luminance and chrominance quantization tables.
static encode_result encode_rgb_jpeg(
    const unsigned char *pixels, int width, int height,
    const unsigned int *luma_qtable, const unsigned int *chroma_qtable,
    int subsample, int progressive,
    const encode_marker *markers, int marker_count
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_compress_struct cinfo;
    encode_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = encode_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_compress(&cinfo);
        return res;
    }

    jpeg_create_compress(&cinfo);
    jpeg_mem_dest(&cinfo, &res.buf, &res.size);

    cinfo.image_width = width;
    cinfo.image_height = height;
    cinfo.input_components = 3;
    cinfo.in_color_space = JCS_RGB;

    jpeg_set_defaults(&cinfo);
    cinfo.optimize_coding = TRUE;
    if (progressive) {
        jpeg_simple_progression(&cinfo);
    }

    // Luma keeps the libjpeg default 2x2 factor when subsampling; chroma
    // is always 1x1.
    int factor = subsample ? 2 : 1;
    cinfo.comp_info[0].h_samp_factor = factor;
    cinfo.comp_info[0].v_samp_factor = factor;
    for (int i = 1; i < 3; i++) {
        cinfo.comp_info[i].h_samp_factor = 1;
        cinfo.comp_info[i].v_samp_factor = 1;
    }

    // Quantization tables are pre-scaled on the Go side.
    if (cinfo.quant_tbl_ptrs[0] == NULL)
        cinfo.quant_tbl_ptrs[0] = jpeg_alloc_quant_table((j_common_ptr)&cinfo);
    if (cinfo.quant_tbl_ptrs[1] == NULL)
        cinfo.quant_tbl_ptrs[1] = jpeg_alloc_quant_table((j_common_ptr)&cinfo);

    for (int i = 0; i < 64; i++) {
        cinfo.quant_tbl_ptrs[0]->quantval[i] = (UINT16)luma_qtable[i];
        cinfo.quant_tbl_ptrs[1]->quantval[i] = (UINT16)chroma_qtable[i];
    }

    cinfo.comp_info[0].quant_tbl_no = 0;
    cinfo.comp_info[1].quant_tbl_no = 1;
    cinfo.comp_info[2].quant_tbl_no = 1;

    jpeg_start_compress(&cinfo, TRUE);

    for (int i = 0; i < marker_count; i++) {
        jpeg_write_marker(&cinfo, JPEG_APP0 + 2, markers[i].data, markers[i].len);
    }

    int row_stride = width * 3;
    while (cinfo.next_scanline < cinfo.image_height) {
        const unsigned char *row = pixels + (unsigned long)cinfo.next_scanline * row_stride;
        jpeg_write_scanlines(&cinfo, (JSAMPARRAY)&row, 1);
    }

    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);
    return res;
}

static void free_encode_buf(unsigned char *buf) {
    free(buf);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// EncoderOptions controls RGB JPEG encoding.
type EncoderOptions struct {
	Quality     int  // 1-100, default 85
	Subsample   bool // 4:2:0 chroma subsampling
	Progressive bool
}

// EncodeRGB encodes packed RGB pixel data to JPEG.
// pixels must be width*height*3 bytes.
// iccProfile is embedded as APP2 chunks when non-nil.
func EncodeRGB(pixels []byte, width, height int, iccProfile []byte, opts EncoderOptions) ([]byte, error) {
	expectedSize := width * height * 3
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot encode %dx%d JPEG", width, height)
	}
	if len(pixels) != expectedSize {
		return nil, fmt.Errorf("expected %d RGB bytes, got %d", expectedSize, len(pixels))
	}

	if opts.Quality == 0 {
		opts.Quality = 85
	}

	lumaTable, chromaTable := GenerateQuantTables(opts.Quality)

	var lumaQtableC [64]C.uint
	var chromaQtableC [64]C.uint
	for i := 0; i < 64; i++ {
		lumaQtableC[i] = C.uint(lumaTable[i])
		chromaQtableC[i] = C.uint(chromaTable[i])
	}

	var chunks [][]byte
	if len(iccProfile) > 0 {
		var err error
		chunks, err = ChunkICC(iccProfile)
		if err != nil {
			return nil, err
		}
	}

	// Marker payloads must live in C memory: the marker array holds
	// pointers and is itself passed to C.
	var markersPtr *C.encode_marker
	if len(chunks) > 0 {
		markersPtr = (*C.encode_marker)(C.malloc(C.size_t(len(chunks)) * C.size_t(unsafe.Sizeof(C.encode_marker{}))))
		defer C.free(unsafe.Pointer(markersPtr))
		markers := unsafe.Slice(markersPtr, len(chunks))
		for i, chunk := range chunks {
			markers[i].data = (*C.uchar)(C.CBytes(chunk))
			markers[i].len = C.uint(len(chunk))
			defer C.free(unsafe.Pointer(markers[i].data))
		}
	}

	res := C.encode_rgb_jpeg(
		(*C.uchar)(unsafe.Pointer(&pixels[0])),
		C.int(width), C.int(height),
		&lumaQtableC[0], &chromaQtableC[0],
		cBool(opts.Subsample), cBool(opts.Progressive),
		markersPtr, C.int(len(chunks)),
	)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg encode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_encode_buf(res.buf)

	return C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size)), nil
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
