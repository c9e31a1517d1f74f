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

static void decode_silent(j_common_ptr cinfo) {}

typedef struct {
    unsigned char *data;
    unsigned int   len;
} decode_marker;

typedef struct {
    int            width;
    int            height;
    int            num_components;
    unsigned char *pixels;       // RGB output, owned by the caller once set
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

static decode_result decode_rgb_jpeg(const unsigned char *buf, unsigned long buf_size,
                                      decode_marker *markers, int max_markers, int *marker_count) {
    decode_result res;
    memset(&res, 0, sizeof(res));
    *marker_count = 0;

    struct jpeg_decompress_struct cinfo;
    decode_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = decode_error_exit;
    jerr.pub.output_message = decode_silent;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_save_markers(&cinfo, JPEG_APP0+2, 0xFFFF);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    // Grayscale and YCbCr sources both come out as interleaved RGB.
    cinfo.out_color_space = JCS_RGB;

    jpeg_start_decompress(&cinfo);

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;
    res.num_components = cinfo.output_components;

    res.pixels_size = (unsigned long)res.width * res.height * res.num_components;
    res.pixels = (unsigned char *)malloc(res.pixels_size);
    if (res.pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    int row_stride = res.width * res.num_components;
    while (cinfo.output_scanline < cinfo.output_height) {
        unsigned char *row = res.pixels + (unsigned long)cinfo.output_scanline * row_stride;
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
	"fmt"
	"unsafe"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// DecodedRGB holds the result of decoding a JPEG to RGB.
type DecodedRGB struct {
	Width  int
	Height int
	Pixels []byte // R,G,B interleaved, len = Width * Height * 3
	ICC    []byte // extracted ICC profile, nil if absent
}

// DecodeRGB decodes a JPEG stream from memory. Grayscale sources are
// expanded to RGB. The returned slices are Go memory; every libjpeg
// allocation is released before DecodeRGB returns.
func DecodeRGB(data []byte) (*DecodedRGB, error) {
	if !hasSOI(data) {
		return nil, ErrNotJPEG
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

	// pixels may be set even when a later stage failed.
	defer C.free_decode_pixels(res.pixels)
	defer C.free_decode_markers(&cMarkers[0], markerCount)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}
	if res.num_components != 3 {
		return nil, fmt.Errorf("libjpeg decode: %d output components, want 3", int(res.num_components))
	}

	pixelSize := int(res.pixels_size)
	pixels := make([]byte, pixelSize)
	copy(pixels, unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), pixelSize))

	var app2Markers [][]byte
	for i := 0; i < int(markerCount); i++ {
		m := cMarkers[i]
		app2Markers = append(app2Markers, C.GoBytes(unsafe.Pointer(m.data), C.int(m.len)))
	}

	icc, err := ExtractICC(app2Markers)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	return &DecodedRGB{
		Width:  int(res.width),
		Height: int(res.height),
		Pixels: pixels,
		ICC:    icc,
	}, nil
}
