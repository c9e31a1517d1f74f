package ir

// SetPixel writes c at (x, y). A nil or released image and coordinates
// outside [0,Cols)x[0,Rows) are ignored.
//
// Gray images store c.A, Color images store B,G,R and ignore alpha,
// ColorAlpha images store all four bytes in the image's order.
func SetPixel(img *Image, x, y int, c ColorQuad) {
	if img.Released() || x < 0 || x >= img.Cols || y < 0 || y >= img.Rows {
		return
	}
	switch img.Layout {
	case LayoutGray:
		img.Data[y*img.Stride+x] = c.A
	case LayoutColor:
		off := y*img.Stride + x*3
		img.Data[off] = c.B
		img.Data[off+1] = c.G
		img.Data[off+2] = c.R
	case LayoutColorAlpha:
		off := y*img.Stride + x*4
		b := c.Bytes(img.Order)
		copy(img.Data[off:off+4], b[:])
	}
}

// GetPixel reads the pixel at (x, y). A nil or released image and
// out-of-range coordinates yield the all-zero quad, which is a sentinel and
// not a black pixel: a valid opaque black ColorAlpha pixel has A == 255.
// For Gray images only A is set; Color images report A == 0.
func GetPixel(img *Image, x, y int) ColorQuad {
	var c ColorQuad
	if img.Released() || x < 0 || x >= img.Cols || y < 0 || y >= img.Rows {
		return c
	}
	switch img.Layout {
	case LayoutGray:
		c.A = img.Data[y*img.Stride+x]
	case LayoutColor:
		off := y*img.Stride + x*3
		c.B = img.Data[off]
		c.G = img.Data[off+1]
		c.R = img.Data[off+2]
	case LayoutColorAlpha:
		off := y*img.Stride + x*4
		c = QuadFromBytes(img.Order, img.Data[off:off+4])
	}
	return c
}

// Fill sets every pixel to c.
func Fill(img *Image, c ColorQuad) {
	if img.Released() {
		return
	}
	for y := 0; y < img.Rows; y++ {
		for x := 0; x < img.Cols; x++ {
			SetPixel(img, x, y, c)
		}
	}
}
