//go:build opencv

package codec

import (
	"errors"
	"fmt"

	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"gocv.io/x/gocv"
)

// Backend names the compiled-in codec backend.
const Backend = "opencv"

// Helper decodes and encodes through OpenCV. Every Mat it creates is
// closed before the call returns; pixels are copied out into Go memory.
type Helper struct {
	base
}

// New returns a ready backend.
func New(opts ...Option) (*Helper, error) {
	return &Helper{base: newBase(opts)}, nil
}

var errEmptyMat = errors.New("opencv: empty result")

func (h *Helper) load(path string, layout ir.Layout) (*ir.Image, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	defer m.Close()
	if m.Empty() {
		return nil, fmt.Errorf("opencv: cannot read %s", path)
	}
	return h.fromMat(m, layout)
}

func (h *Helper) decode(data []byte, layout ir.Layout) (*ir.Image, error) {
	m, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	if m.Empty() {
		return nil, errEmptyMat
	}
	return h.fromMat(m, layout)
}

// fromMat converts a decoded 3-channel BGR Mat into the requested layout.
func (h *Helper) fromMat(src gocv.Mat, layout ir.Layout) (*ir.Image, error) {
	var code gocv.ColorConversionCode
	switch layout {
	case ir.LayoutColor:
		return copyMat(src, layout, h.order)
	case ir.LayoutGray:
		code = gocv.ColorBGRToGray
	case ir.LayoutColorAlpha:
		code = gocv.ColorBGRToBGRA
		if h.order == ir.OrderRGBA {
			code = gocv.ColorBGRToRGBA
		}
	default:
		return nil, fmt.Errorf("opencv: unsupported layout %v", layout)
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, code)
	if dst.Empty() {
		return nil, errEmptyMat
	}
	return copyMat(dst, layout, h.order)
}

func copyMat(m gocv.Mat, layout ir.Layout, order ir.ColorOrder) (*ir.Image, error) {
	if m.Channels() != layout.BytesPerPixel() {
		return nil, fmt.Errorf("opencv: got %d channels, want %d", m.Channels(), layout.BytesPerPixel())
	}
	data, err := m.DataPtrUint8()
	if err != nil {
		return nil, err
	}
	img := ir.CreateImage(m.Cols(), m.Rows(), layout, order)
	step := m.Step()
	rowLen := img.Cols * layout.BytesPerPixel()
	for y := 0; y < img.Rows; y++ {
		copy(img.Row(y), data[y*step:y*step+rowLen])
	}
	return img, nil
}

func matType(layout ir.Layout) gocv.MatType {
	switch layout {
	case ir.LayoutGray:
		return gocv.MatTypeCV8UC1
	case ir.LayoutColor:
		return gocv.MatTypeCV8UC3
	default:
		return gocv.MatTypeCV8UC4
	}
}

func (h *Helper) save(path string, f format.ImageFormat, img *ir.Image) error {
	// packed is a private copy, so img is never touched.
	m, err := gocv.NewMatFromBytes(img.Rows, img.Cols, matType(img.Layout), packed(img))
	if err != nil {
		return err
	}
	defer m.Close()

	out := m
	if img.Layout == ir.LayoutColorAlpha && img.Order == ir.OrderRGBA {
		bgra := gocv.NewMat()
		defer bgra.Close()
		gocv.CvtColor(m, &bgra, gocv.ColorRGBAToBGRA)
		if bgra.Empty() {
			return errEmptyMat
		}
		out = bgra
	}

	var params []int
	if f == format.JPEG {
		params = []int{int(gocv.IMWriteJpegQuality), h.quality}
	}
	if !gocv.IMWriteWithParams(path, out, params) {
		return fmt.Errorf("opencv: imwrite %s failed", path)
	}
	return nil
}

func (h *Helper) release() error { return nil }
