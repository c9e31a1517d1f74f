// Package ir holds the in-memory image representations shared by the codec
// backends, the drawing primitives and the float conversion: an 8-bit
// raster (Image) and a normalised float raster (ImageF).
package ir

import (
	"errors"
	"fmt"
	"math"
)

// ErrAllocation is the panic value (wrapped) raised when a buffer cannot be
// allocated. Allocation failure is fatal.
var ErrAllocation = errors.New("ir: allocation failed")

// Layout declares the channel count of an Image and how accessors interpret
// its bytes.
type Layout int

const (
	// LayoutColorAlpha is 4 bytes per pixel, ordered by the image's ColorOrder.
	LayoutColorAlpha Layout = iota
	// LayoutColor is 3 bytes per pixel, always B,G,R.
	LayoutColor
	// LayoutGray is 1 intensity byte per pixel.
	LayoutGray
)

// BytesPerPixel returns 4, 3 or 1. Unknown layouts report 0.
func (l Layout) BytesPerPixel() int {
	switch l {
	case LayoutColorAlpha:
		return 4
	case LayoutColor:
		return 3
	case LayoutGray:
		return 1
	default:
		return 0
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutColorAlpha:
		return "ColorAlpha"
	case LayoutColor:
		return "Color"
	case LayoutGray:
		return "Gray"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout accepts the names used on the command line.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "rgba", "bgra", "color-alpha":
		return LayoutColorAlpha, nil
	case "bgr", "color":
		return LayoutColor, nil
	case "gray", "grey":
		return LayoutGray, nil
	default:
		return 0, fmt.Errorf("unknown layout: %q", s)
	}
}

// Image is an 8-bit raster that exclusively owns Data. Rows may be padded:
// pixel (x, y) starts at y*Stride + x*Layout.BytesPerPixel().
type Image struct {
	Cols   int
	Rows   int
	Stride int // bytes per row, >= Cols*Layout.BytesPerPixel()
	Data   []byte
	Layout Layout
	Order  ColorOrder // byte order of 4-channel pixels
}

// CreateImage allocates a zeroed, unpadded image.
func CreateImage(width, height int, layout Layout, order ColorOrder) *Image {
	return NewImageWithStride(width, height, width*layout.BytesPerPixel(), layout, order)
}

// NewImageWithStride allocates a zeroed image whose rows are stride bytes
// apart. It panics (wrapping ErrAllocation) when the geometry is invalid.
func NewImageWithStride(width, height, stride int, layout Layout, order ColorOrder) *Image {
	bpp := layout.BytesPerPixel()
	if bpp == 0 {
		panic(fmt.Errorf("%w: unknown layout %d", ErrAllocation, int(layout)))
	}
	if width < 0 || height < 0 {
		panic(fmt.Errorf("%w: negative dimensions %dx%d", ErrAllocation, width, height))
	}
	if stride < width*bpp {
		panic(fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrAllocation, stride, width*bpp))
	}
	if height > 0 && stride > math.MaxInt/height {
		panic(fmt.Errorf("%w: %d rows of %d bytes overflow", ErrAllocation, height, stride))
	}
	return &Image{
		Cols:   width,
		Rows:   height,
		Stride: stride,
		Data:   make([]byte, stride*height),
		Layout: layout,
		Order:  order,
	}
}

// Row returns the bytes of row y without padding, or nil when y is out of
// range or the image has been released.
func (img *Image) Row(y int) []byte {
	if img == nil || img.Data == nil || y < 0 || y >= img.Rows {
		return nil
	}
	off := y * img.Stride
	return img.Data[off : off+img.Cols*img.Layout.BytesPerPixel()]
}

// Clone returns a deep copy with the same stride.
func (img *Image) Clone() *Image {
	if img == nil {
		return nil
	}
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	c := *img
	c.Data = data
	return &c
}

// Released reports whether Release has been called.
func (img *Image) Released() bool {
	return img == nil || img.Data == nil
}

// Release drops the pixel buffer. It is safe to call more than once; after
// the first call the image reports zero geometry.
func (img *Image) Release() {
	if img == nil {
		return
	}
	img.Data = nil
	img.Cols, img.Rows, img.Stride = 0, 0, 0
}

// ImageFLayout declares the channel count of an ImageF.
type ImageFLayout int

const (
	// FloatColor is 3 floats per pixel in B,G,R order.
	FloatColor ImageFLayout = iota
	// FloatGray is 1 float per pixel.
	FloatGray
)

// Channels returns 3 or 1.
func (l ImageFLayout) Channels() int {
	if l == FloatGray {
		return 1
	}
	return 3
}

func (l ImageFLayout) String() string {
	if l == FloatGray {
		return "Gray"
	}
	return "Color"
}

// ImageF is a float raster normalised to [0,1]. Color pixels are always
// B,G,R, independent of any ColorOrder. Stride is in bytes, as for Image.
type ImageF struct {
	Cols   int
	Rows   int
	Stride int // bytes per row: Cols*channels*4
	Data   []float32
	Layout ImageFLayout
}

const float32Size = 4

// CreateImageF allocates a zeroed float image.
func CreateImageF(width, height int, layout ImageFLayout) *ImageF {
	if width < 0 || height < 0 {
		panic(fmt.Errorf("%w: negative dimensions %dx%d", ErrAllocation, width, height))
	}
	ch := layout.Channels()
	if height > 0 && width*ch > math.MaxInt/float32Size/height {
		panic(fmt.Errorf("%w: %dx%dx%d floats overflow", ErrAllocation, width, height, ch))
	}
	return &ImageF{
		Cols:   width,
		Rows:   height,
		Stride: width * ch * float32Size,
		Data:   make([]float32, width*height*ch),
		Layout: layout,
	}
}

// Row returns the floats of row y, or nil when out of range.
func (f *ImageF) Row(y int) []float32 {
	if f == nil || f.Data == nil || y < 0 || y >= f.Rows {
		return nil
	}
	n := f.Stride / float32Size
	return f.Data[y*n : y*n+f.Cols*f.Layout.Channels()]
}

// Release drops the float buffer; repeated calls are no-ops.
func (f *ImageF) Release() {
	if f == nil {
		return
	}
	f.Data = nil
	f.Cols, f.Rows, f.Stride = 0, 0, 0
}
