package ir

func clip(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func toByte(v float32) byte {
	return byte(clip(v*255.0, 0, 255.0))
}

// ToFloatImage scales img into [0,1]. Gray stays Gray; Color and ColorAlpha
// become a 3-channel B,G,R float image, dropping alpha and undoing the
// image's ColorOrder.
func ToFloatImage(img *Image) *ImageF {
	if img.Released() {
		return nil
	}
	if img.Layout == LayoutGray {
		f := CreateImageF(img.Cols, img.Rows, FloatGray)
		for y := 0; y < img.Rows; y++ {
			ps := img.Row(y)
			pd := f.Row(y)
			for x := range pd {
				pd[x] = float32(ps[x]) / 255.0
			}
		}
		return f
	}

	f := CreateImageF(img.Cols, img.Rows, FloatColor)
	n := img.Layout.BytesPerPixel()
	// byte index of B and R inside one source pixel
	bi, ri := 0, 2
	if img.Layout == LayoutColorAlpha && img.Order == OrderRGBA {
		bi, ri = 2, 0
	}
	for y := 0; y < img.Rows; y++ {
		ps := img.Row(y)
		pd := f.Row(y)
		for x := 0; x < img.Cols; x++ {
			s := ps[n*x : n*x+n]
			pd[3*x+0] = float32(s[bi]) / 255.0
			pd[3*x+1] = float32(s[1]) / 255.0
			pd[3*x+2] = float32(s[ri]) / 255.0
		}
	}
	return f
}

// FromFloatImage converts back to bytes, clipping each scaled value to
// [0,255] before truncation. Gray stays Gray; Color becomes an opaque
// ColorAlpha image in the given order.
func FromFloatImage(f *ImageF, order ColorOrder) *Image {
	if f == nil || f.Data == nil {
		return nil
	}
	if f.Layout == FloatGray {
		img := CreateImage(f.Cols, f.Rows, LayoutGray, order)
		for y := 0; y < f.Rows; y++ {
			ps := f.Row(y)
			pd := img.Row(y)
			for x := range ps {
				pd[x] = toByte(ps[x])
			}
		}
		return img
	}

	img := CreateImage(f.Cols, f.Rows, LayoutColorAlpha, order)
	for y := 0; y < f.Rows; y++ {
		ps := f.Row(y)
		pd := img.Row(y)
		for x := 0; x < f.Cols; x++ {
			c := NewColorQuad(toByte(ps[3*x]), toByte(ps[3*x+1]), toByte(ps[3*x+2]))
			b := c.Bytes(order)
			copy(pd[4*x:4*x+4], b[:])
		}
	}
	return img
}
