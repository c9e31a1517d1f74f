package ir

import "math"

func strokeColor(colors []ColorQuad) ColorQuad {
	if len(colors) > 0 {
		return colors[0]
	}
	return Signal
}

// DrawPoint fills every integer offset within strokeWidth (Euclidean) of
// (x, y). Offsets that fall off the canvas are dropped.
func DrawPoint(img *Image, x, y, strokeWidth int, color ...ColorQuad) {
	c := strokeColor(color)
	r2 := strokeWidth * strokeWidth
	for h := x - strokeWidth; h <= x+strokeWidth; h++ {
		for v := y - strokeWidth; v <= y+strokeWidth; v++ {
			dx, dy := h-x, v-y
			if dx*dx+dy*dy <= r2 {
				SetPixel(img, h, v, c)
			}
		}
	}
}

// DrawRect draws a strokeWidth thick outline whose outer edges are the
// given rows and columns (inclusive). Strokes grow inward.
func DrawRect(img *Image, top, left, right, bottom, strokeWidth int, color ...ColorQuad) {
	c := strokeColor(color)
	for i := top; i <= bottom; i++ {
		for sw := 0; sw < strokeWidth; sw++ {
			SetPixel(img, left+sw, i, c)
			SetPixel(img, right-sw, i, c)
		}
	}
	for i := left; i <= right; i++ {
		for sw := 0; sw < strokeWidth; sw++ {
			SetPixel(img, i, top+sw, c)
			SetPixel(img, i, bottom-sw, c)
		}
	}
}

// rotate turns (xIn, yIn) by -theta degrees about (cx, cy) and truncates the
// result toward zero, in single precision.
func rotate(theta float32, xIn, yIn, cx, cy int) (int, int) {
	x := float32(xIn - cx)
	y := float32(yIn - cy)
	th := -theta / 180.0 * 3.1415927
	cos := float32(math.Cos(float64(th)))
	sin := float32(math.Sin(float64(th)))
	xx := int(x*cos + y*-sin)
	yy := int(x*sin + y*cos)
	return xx + cx, yy + cy
}

// inOuterQuarter reports whether step i of n lies in the first or last
// quarter of an edge.
func inOuterQuarter(i, n int) bool {
	return i < n/4 || i > n*3/4
}

// DrawRotatedRect draws the corners of the rectangle rotated by roll
// degrees about its center: only the outer quarter of each edge is drawn,
// each sample as a point of radius strokeWidth.
func DrawRotatedRect(img *Image, top, left, right, bottom, roll, strokeWidth int, color ...ColorQuad) {
	c := strokeColor(color)
	cx, cy := (left+right)/2, (top+bottom)/2
	theta := float32(roll)

	for _, row := range [2]int{top, bottom} {
		for i := left; i < right; i++ {
			if inOuterQuarter(i-left, right-left) {
				x, y := rotate(theta, i, row, cx, cy)
				DrawPoint(img, x, y, strokeWidth, c)
			}
		}
	}
	for _, col := range [2]int{left, right} {
		for i := top; i < bottom; i++ {
			if inOuterQuarter(i-top, bottom-top) {
				x, y := rotate(theta, col, i, cx, cy)
				DrawPoint(img, x, y, strokeWidth, c)
			}
		}
	}
}

// DrawMask blacks out every pixel of img whose mask value is zero. img must
// be Color or ColorAlpha, mask must be Gray with the same geometry;
// anything else is ignored.
func DrawMask(img, mask *Image) {
	if img.Released() || mask.Released() {
		return
	}
	if img.Layout != LayoutColor && img.Layout != LayoutColorAlpha {
		return
	}
	if mask.Layout != LayoutGray || mask.Cols != img.Cols || mask.Rows != img.Rows {
		return
	}
	black := NewColorQuad(0, 0, 0)
	for r := 0; r < img.Rows; r++ {
		for c := 0; c < img.Cols; c++ {
			if mask.Data[mask.Stride*r+c] != 0 {
				continue
			}
			SetPixel(img, c, r, black)
		}
	}
}
