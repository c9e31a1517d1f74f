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

static void encode_silent(j_common_ptr cinfo) {}

typedef struct {
    unsigned char *buf;          // jpeg_mem_dest output, freed by the caller on every path
    unsigned long  size;
    int            has_error;
    char           error_msg[256];
} encode_result;

// write_app2 writes count APP2 payloads laid end to end in data.
static void write_app2(j_compress_ptr cinfo, const unsigned char *data,
                       const unsigned int *lens, int count) {
    for (int i = 0; i < count; i++) {
        jpeg_write_marker(cinfo, JPEG_APP0 + 2, data, lens[i]);
        data += lens[i];
    }
}

static int is_marker(jpeg_saved_marker_ptr m, int code, const char *tag, unsigned int tag_len) {
    return m->marker == code && m->data_length >= tag_len && memcmp(m->data, tag, tag_len) == 0;
}

static encode_result encode_jpeg(
    const unsigned char *pixels, int width, int height, int components, int quality,
    const unsigned char *app2, const unsigned int *app2_lens, int app2_count
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_compress_struct cinfo;
    encode_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = encode_error_exit;
    jerr.pub.output_message = encode_silent;

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
    cinfo.input_components = components;
    cinfo.in_color_space = components == 1 ? JCS_GRAYSCALE : JCS_RGB;

    jpeg_set_defaults(&cinfo);
    jpeg_set_quality(&cinfo, quality, TRUE);
    cinfo.optimize_coding = TRUE;

    jpeg_start_compress(&cinfo, TRUE);
    write_app2(&cinfo, app2, app2_lens, app2_count);

    int row_stride = width * components;
    while (cinfo.next_scanline < cinfo.image_height) {
        const unsigned char *row = pixels + (unsigned long)cinfo.next_scanline * row_stride;
        jpeg_write_scanlines(&cinfo, (JSAMPARRAY)&row, 1);
    }

    jpeg_finish_compress(&cinfo);
    jpeg_destroy_compress(&cinfo);
    return res;
}

// retag_jpeg copies the DCT coefficients of buf into a new stream, so the
// image data is untouched. Existing ICC chunks are replaced by app2; every
// other saved marker is carried over.
static encode_result retag_jpeg(
    const unsigned char *buf, unsigned long buf_size,
    const unsigned char *app2, const unsigned int *app2_lens, int app2_count
) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    struct jpeg_decompress_struct src;
    struct jpeg_compress_struct dst;
    encode_err_mgr jerr;

    memset(&src, 0, sizeof(src));
    memset(&dst, 0, sizeof(dst));
    src.err = jpeg_std_error(&jerr.pub);
    dst.err = &jerr.pub;
    jerr.pub.error_exit = encode_error_exit;
    jerr.pub.output_message = encode_silent;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_compress(&dst);
        jpeg_destroy_decompress(&src);
        return res;
    }

    jpeg_create_decompress(&src);
    jpeg_mem_src(&src, (unsigned char *)buf, buf_size);
    jpeg_save_markers(&src, JPEG_COM, 0xFFFF);
    for (int i = 0; i < 16; i++) {
        jpeg_save_markers(&src, JPEG_APP0 + i, 0xFFFF);
    }
    jpeg_read_header(&src, TRUE);
    jvirt_barray_ptr *coefs = jpeg_read_coefficients(&src);

    jpeg_create_compress(&dst);
    jpeg_copy_critical_parameters(&src, &dst);
    jpeg_mem_dest(&dst, &res.buf, &res.size);
    jpeg_write_coefficients(&dst, coefs);

    write_app2(&dst, app2, app2_lens, app2_count);
    for (jpeg_saved_marker_ptr m = src.marker_list; m != NULL; m = m->next) {
        if (dst.write_JFIF_header && is_marker(m, JPEG_APP0, "JFIF", 5)) continue;
        if (dst.write_Adobe_marker && is_marker(m, JPEG_APP0 + 14, "Adobe", 5)) continue;
        if (is_marker(m, JPEG_APP0 + 2, "ICC_PROFILE", 12)) continue;
        jpeg_write_marker(&dst, m->marker, m->data, m->data_length);
    }

    jpeg_finish_compress(&dst);
    jpeg_destroy_compress(&dst);
    jpeg_finish_decompress(&src);
    jpeg_destroy_decompress(&src);
    return res;
}

static void free_encode_buf(unsigned char *buf) {
    free(buf);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// EncoderOptions controls JPEG encoding.
type EncoderOptions struct {
	Quality int // 1-100, default 85
}

// app2Block holds APP2 payloads laid end to end, the shape the C side
// walks.
type app2Block struct {
	data []byte
	lens []C.uint
}

func newApp2Block(chunks [][]byte) app2Block {
	var b app2Block
	for _, c := range chunks {
		b.data = append(b.data, c...)
		b.lens = append(b.lens, C.uint(len(c)))
	}
	return b
}

func (b app2Block) args() (*C.uchar, *C.uint, C.int) {
	if len(b.lens) == 0 {
		return nil, nil, 0
	}
	return (*C.uchar)(unsafe.Pointer(&b.data[0])), &b.lens[0], C.int(len(b.lens))
}

// finish copies the encoder output into Go memory and frees it.
func finish(res C.encode_result, op string) ([]byte, error) {
	defer C.free_encode_buf(res.buf)
	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg %s: %s", op, C.GoString(&res.error_msg[0]))
	}
	return C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size)), nil
}

// Encode compresses tightly packed pixels to a baseline JPEG using the
// standard IJG tables scaled to opts.Quality. components is 1 (gray) or 3
// (R,G,B interleaved). iccProfile, when not empty, is embedded as APP2
// chunks.
func Encode(pixels []byte, width, height, components int, iccProfile []byte, opts EncoderOptions) ([]byte, error) {
	if components != 1 && components != 3 {
		return nil, fmt.Errorf("jpeg: cannot encode %d components", components)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("jpeg: invalid size %dx%d", width, height)
	}
	if want := width * height * components; len(pixels) != want {
		return nil, fmt.Errorf("expected %d pixel bytes, got %d", want, len(pixels))
	}
	if opts.Quality == 0 {
		opts.Quality = 85
	}
	opts.Quality = min(max(opts.Quality, 1), 100)

	var block app2Block
	if len(iccProfile) > 0 {
		chunks, err := ChunkICC(iccProfile)
		if err != nil {
			return nil, err
		}
		block = newApp2Block(chunks)
	}
	app2, lens, count := block.args()

	res := C.encode_jpeg(
		(*C.uchar)(unsafe.Pointer(&pixels[0])),
		C.int(width), C.int(height), C.int(components), C.int(opts.Quality),
		app2, lens, count,
	)
	return finish(res, "encode")
}

// EmbedICC returns a copy of the JPEG stream data carrying profile as APP2
// chunks. Any ICC profile already present is replaced. The scan data is
// transcoded losslessly, so decoded pixels are unchanged.
func EmbedICC(data, profile []byte) ([]byte, error) {
	if !hasSOI(data) {
		return nil, ErrNotJPEG
	}
	chunks, err := ChunkICC(profile)
	if err != nil {
		return nil, err
	}
	block := newApp2Block(chunks)
	app2, lens, count := block.args()

	res := C.retag_jpeg(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
		app2, lens, count,
	)
	return finish(res, "retag")
}

// ErrNotJPEG is returned for data that does not start with an SOI marker.
var ErrNotJPEG = errors.New("jpeg: missing SOI marker")

func hasSOI(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8
}
