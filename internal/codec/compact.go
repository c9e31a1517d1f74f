//go:build !opencv && !(windows && gdiplus)

package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"os"

	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/jpeg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Backend names the compiled-in codec backend.
const Backend = "compact"

// Helper is the default backend. JPEG goes through libjpeg; PNG, GIF
// (first frame), BMP, TIFF and WebP are decoded in Go. It encodes PNG and
// JPEG.
type Helper struct {
	base
}

// New returns a ready backend. It never fails; the error keeps the
// signature shared with the other backends.
func New(opts ...Option) (*Helper, error) {
	return &Helper{base: newBase(opts)}, nil
}

func (h *Helper) load(path string, layout ir.Layout) (*ir.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return h.decode(data, layout)
}

func (h *Helper) decode(data []byte, layout ir.Layout) (*ir.Image, error) {
	if format.Sniff(data) == "jpeg" {
		dec, err := jpeg.DecodeRGB(data)
		if err != nil {
			return nil, err
		}
		return fromRGB(dec.Pixels, dec.Width, dec.Height, layout, h.order), nil
	}

	src, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%s: empty image", name)
	}
	return ir.FromStd(src, layout, h.order), nil
}

// fromRGB lays out interleaved R,G,B rows in the requested layout.
func fromRGB(pix []byte, w, h int, layout ir.Layout, order ir.ColorOrder) *ir.Image {
	img := ir.CreateImage(w, h, layout, order)
	for y := 0; y < h; y++ {
		src := pix[y*w*3 : (y+1)*w*3]
		row := img.Row(y)
		for x := 0; x < w; x++ {
			r, g, b := src[3*x], src[3*x+1], src[3*x+2]
			switch layout {
			case ir.LayoutGray:
				row[x] = ir.Luma(r, g, b)
			case ir.LayoutColor:
				row[3*x], row[3*x+1], row[3*x+2] = b, g, r
			default:
				q := ir.NewColorQuad(b, g, r).Bytes(order)
				copy(row[4*x:], q[:])
			}
		}
	}
	return img
}

// toRGB returns img as the 1 or 3 interleaved components libjpeg takes.
// Alpha is dropped.
func toRGB(img *ir.Image) ([]byte, int) {
	pix := packed(img)
	if img.Layout == ir.LayoutGray {
		return pix, 1
	}
	n := img.Layout.BytesPerPixel()
	out := make([]byte, 0, img.Cols*img.Rows*3)
	for i := 0; i+n <= len(pix); i += n {
		var c ir.ColorQuad
		if n == 4 {
			c = ir.QuadFromBytes(img.Order, pix[i:i+4])
		} else {
			c = ir.NewColorQuad(pix[i], pix[i+1], pix[i+2])
		}
		out = append(out, c.R, c.G, c.B)
	}
	return out, 3
}

func (h *Helper) save(path string, f format.ImageFormat, img *ir.Image) error {
	var data []byte
	switch f {
	case format.PNG:
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := enc.Encode(&buf, img.ToStd()); err != nil {
			return err
		}
		data = buf.Bytes()
	case format.JPEG:
		pix, comps := toRGB(img)
		var err error
		data, err = jpeg.Encode(pix, img.Cols, img.Rows, comps, nil, jpeg.EncoderOptions{Quality: h.quality})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no encoder for %v", f)
	}
	return os.WriteFile(path, data, 0o644)
}

func (h *Helper) release() error { return nil }
