package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorOrder fixes the byte order of 4-channel pixels.
type ColorOrder int

const (
	OrderBGRA ColorOrder = iota
	OrderRGBA
)

func (o ColorOrder) String() string {
	switch o {
	case OrderBGRA:
		return "BGRA"
	case OrderRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ColorOrder(%d)", int(o))
	}
}

// ParseColorOrder accepts "bgra" or "rgba" in any case. An empty string
// selects NativeOrder.
func ParseColorOrder(s string) (ColorOrder, error) {
	switch strings.ToLower(s) {
	case "":
		return NativeOrder, nil
	case "bgra":
		return OrderBGRA, nil
	case "rgba":
		return OrderRGBA, nil
	default:
		return 0, fmt.Errorf("unknown color order: %q", s)
	}
}

// ColorQuad is a logical 4-channel pixel. Its memory layout depends on the
// ColorOrder it is written with. Gray images keep their intensity in A.
type ColorQuad struct {
	B, G, R, A uint8
}

// Signal is the default stroke color.
var Signal = NewColorQuad(0, 255, 0)

// NewColorQuad returns an opaque color.
func NewColorQuad(b, g, r uint8) ColorQuad {
	return ColorQuad{B: b, G: g, R: r, A: 255}
}

// NewColorQuadA returns a color with an explicit alpha.
func NewColorQuadA(b, g, r, a uint8) ColorQuad {
	return ColorQuad{B: b, G: g, R: r, A: a}
}

// Bytes returns the quad as it is stored in a 4-channel image of order o.
func (c ColorQuad) Bytes(o ColorOrder) [4]byte {
	if o == OrderRGBA {
		return [4]byte{c.R, c.G, c.B, c.A}
	}
	return [4]byte{c.B, c.G, c.R, c.A}
}

// QuadFromBytes reads a quad stored in order o.
func QuadFromBytes(o ColorOrder, p []byte) ColorQuad {
	if o == OrderRGBA {
		return ColorQuad{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	return ColorQuad{B: p[0], G: p[1], R: p[2], A: p[3]}
}

// ParseColorQuad parses "b,g,r" or "b,g,r,a".
func ParseColorQuad(s string) (ColorQuad, error) {
	var v [4]int
	v[3] = 255
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return ColorQuad{}, fmt.Errorf("color %q: want b,g,r or b,g,r,a", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ColorQuad{}, fmt.Errorf("color %q: %w", s, err)
		}
		v[i] = n
		if v[i] < 0 || v[i] > 255 {
			return ColorQuad{}, fmt.Errorf("color %q: channel %d out of range", s, v[i])
		}
	}
	return NewColorQuadA(uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3])), nil
}

// swapRedBlue exchanges bytes 0 and 2 of every n-byte pixel in each row.
func swapRedBlue(data []byte, cols, rows, stride, n int) {
	for y := 0; y < rows; y++ {
		p := data[y*stride : y*stride+cols*n]
		for x := 0; x < len(p); x += n {
			p[x], p[x+2] = p[x+2], p[x]
		}
	}
}

// SwapRedBlue exchanges the first and third channel of every pixel of a
// Color or ColorAlpha image in place. Gray images are left untouched.
func SwapRedBlue(img *Image) {
	if img.Released() {
		return
	}
	n := img.Layout.BytesPerPixel()
	if n < 3 {
		return
	}
	swapRedBlue(img.Data, img.Cols, img.Rows, img.Stride, n)
}

// Reorder rewrites a ColorAlpha image into order o. Other layouts only get
// their Order field updated.
func Reorder(img *Image, o ColorOrder) {
	if img.Released() || img.Order == o {
		if img != nil {
			img.Order = o
		}
		return
	}
	if img.Layout == LayoutColorAlpha {
		SwapRedBlue(img)
	}
	img.Order = o
}
