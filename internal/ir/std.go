package ir

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Luma weights of the compact decoder, in 1/256 units.
const (
	lumaR = 77
	lumaG = 150
	lumaB = 29
)

// Luma returns the 8-bit intensity of an RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(r)*lumaR + int(g)*lumaG + int(b)*lumaB) >> 8)
}

// toNRGBA returns src as a zero-origin, non-premultiplied RGBA image,
// copying only when it is not one already.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// FromStd converts a decoded standard library image into an Image of the
// requested layout. ColorAlpha pixels are written in order.
func FromStd(src image.Image, layout Layout, order ColorOrder) *Image {
	b := src.Bounds()
	img := CreateImage(b.Dx(), b.Dy(), layout, order)

	if g, ok := src.(*image.Gray); ok && layout == LayoutGray {
		for y := 0; y < img.Rows; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(img.Row(y), g.Pix[off:off+img.Cols])
		}
		return img
	}

	n := toNRGBA(src)
	for y := 0; y < img.Rows; y++ {
		ps := n.Pix[y*n.Stride : y*n.Stride+img.Cols*4]
		pd := img.Row(y)
		switch layout {
		case LayoutGray:
			for x := 0; x < img.Cols; x++ {
				pd[x] = Luma(ps[4*x], ps[4*x+1], ps[4*x+2])
			}
		case LayoutColor:
			for x := 0; x < img.Cols; x++ {
				pd[3*x+0] = ps[4*x+2]
				pd[3*x+1] = ps[4*x+1]
				pd[3*x+2] = ps[4*x+0]
			}
		case LayoutColorAlpha:
			copy(pd, ps)
			if order == OrderBGRA {
				for x := 0; x < len(pd); x += 4 {
					pd[x], pd[x+2] = pd[x+2], pd[x]
				}
			}
		}
	}
	return img
}

// ToStd copies img into a standard library image: *image.Gray for Gray,
// *image.NRGBA otherwise (opaque for Color). The result shares no memory
// with img.
func (img *Image) ToStd() image.Image {
	rect := image.Rect(0, 0, img.Cols, img.Rows)
	if img.Layout == LayoutGray {
		g := image.NewGray(rect)
		for y := 0; y < img.Rows; y++ {
			copy(g.Pix[y*g.Stride:], img.Row(y))
		}
		return g
	}

	n := image.NewNRGBA(rect)
	for y := 0; y < img.Rows; y++ {
		ps := img.Row(y)
		pd := n.Pix[y*n.Stride : y*n.Stride+img.Cols*4]
		if img.Layout == LayoutColor {
			for x := 0; x < img.Cols; x++ {
				pd[4*x+0] = ps[3*x+2]
				pd[4*x+1] = ps[3*x+1]
				pd[4*x+2] = ps[3*x+0]
				pd[4*x+3] = 255
			}
			continue
		}
		copy(pd, ps)
		if img.Order == OrderBGRA {
			for x := 0; x < len(pd); x += 4 {
				pd[x], pd[x+2] = pd[x+2], pd[x]
			}
		}
	}
	return n
}
