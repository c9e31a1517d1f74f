// Package jpeg wraps libjpeg for header inspection, RGB decoding, baseline
// encoding and lossless ICC retagging. Every buffer libjpeg allocates is
// copied into Go memory and freed before a call returns.
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
} err_mgr;

static void error_exit_handler(j_common_ptr cinfo) {
    err_mgr *e = (err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

static void info_silent(j_common_ptr cinfo) {}

typedef struct {
    int width;
    int height;
    int num_components;
    int color_space;    // J_COLOR_SPACE enum value
    int progressive;
    int has_luma_table;
    unsigned int luma_table[DCTSIZE2]; // natural order
    int has_error;
    char error_msg[256];
} jpeg_info_result;

typedef struct {
    unsigned char *data;
    unsigned int  len;
} info_marker;

static jpeg_info_result get_jpeg_info(const unsigned char *buf, unsigned long buf_size,
                                       info_marker *markers, int max_markers, int *marker_count) {
    jpeg_info_result res;
    memset(&res, 0, sizeof(res));
    *marker_count = 0;

    struct jpeg_decompress_struct cinfo;
    err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = error_exit_handler;
    jerr.pub.output_message = info_silent;

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

    res.width = cinfo.image_width;
    res.height = cinfo.image_height;
    res.num_components = cinfo.num_components;
    res.color_space = cinfo.jpeg_color_space;
    res.progressive = cinfo.progressive_mode;

    JQUANT_TBL *q = cinfo.quant_tbl_ptrs[0];
    if (q != NULL) {
        res.has_luma_table = 1;
        for (int i = 0; i < DCTSIZE2; i++) {
            res.luma_table[i] = q->quantval[i];
        }
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

    jpeg_destroy_decompress(&cinfo);
    return res;
}

static void free_info_markers(info_marker *markers, int count) {
    for (int i = 0; i < count; i++) {
        free(markers[i].data);
    }
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// colorSpaceName returns a string for libjpeg's J_COLOR_SPACE.
func colorSpaceName(cs int) string {
	switch cs {
	case C.JCS_UNKNOWN:
		return "Unknown"
	case C.JCS_GRAYSCALE:
		return "Grayscale"
	case C.JCS_RGB:
		return "RGB"
	case C.JCS_YCbCr:
		return "YCbCr"
	case C.JCS_CMYK:
		return "CMYK"
	case C.JCS_YCCK:
		return "YCCK"
	default:
		return fmt.Sprintf("J_COLOR_SPACE(%d)", cs)
	}
}

// ImageInfo contains metadata about a JPEG file.
type ImageInfo struct {
	Width         int
	Height        int
	NumComponents int
	ColorSpace    string
	Progressive   bool
	Quality       int    // estimated from the luminance table, 0 if absent
	ICC           []byte // extracted ICC profile, nil if absent
}

// GetInfo reads JPEG metadata and extracts any ICC profile without fully
// decoding the image.
func GetInfo(data []byte) (*ImageInfo, error) {
	if !hasSOI(data) {
		return nil, ErrNotJPEG
	}

	const maxMarkers = 256
	var cMarkers [maxMarkers]C.info_marker
	var markerCount C.int

	res := C.get_jpeg_info(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
		&cMarkers[0],
		C.int(maxMarkers),
		&markerCount,
	)

	defer C.free_info_markers(&cMarkers[0], markerCount)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg: %s", C.GoString(&res.error_msg[0]))
	}

	var app2Markers [][]byte
	for i := 0; i < int(markerCount); i++ {
		m := cMarkers[i]
		app2Markers = append(app2Markers, C.GoBytes(unsafe.Pointer(m.data), C.int(m.len)))
	}

	icc, err := ExtractICC(app2Markers)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	info := &ImageInfo{
		Width:         int(res.width),
		Height:        int(res.height),
		NumComponents: int(res.num_components),
		ColorSpace:    colorSpaceName(int(res.color_space)),
		Progressive:   res.progressive != 0,
		ICC:           icc,
	}
	if res.has_luma_table != 0 {
		var table [64]uint16
		for i := range table {
			table[i] = uint16(res.luma_table[i])
		}
		info.Quality = EstimateQuality(table)
	}
	return info, nil
}
