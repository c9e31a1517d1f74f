package ir

import "testing"

var orders = []ColorOrder{OrderBGRA, OrderRGBA}

func TestSetGetPixelRoundTrip(t *testing.T) {
	c := NewColorQuadA(10, 20, 30, 40)
	for _, order := range orders {
		t.Run(order.String(), func(t *testing.T) {
			alpha := CreateImage(5, 4, LayoutColorAlpha, order)
			color := CreateImage(5, 4, LayoutColor, order)
			gray := CreateImage(5, 4, LayoutGray, order)
			for y := 0; y < 4; y++ {
				for x := 0; x < 5; x++ {
					SetPixel(alpha, x, y, c)
					if got := GetPixel(alpha, x, y); got != c {
						t.Fatalf("ColorAlpha (%d,%d) = %+v, want %+v", x, y, got, c)
					}
					SetPixel(color, x, y, c)
					want := ColorQuad{B: 10, G: 20, R: 30}
					if got := GetPixel(color, x, y); got != want {
						t.Fatalf("Color (%d,%d) = %+v, want %+v", x, y, got, want)
					}
					SetPixel(gray, x, y, c)
					if got := GetPixel(gray, x, y); got != (ColorQuad{A: 40}) {
						t.Fatalf("Gray (%d,%d) = %+v, want only A=40", x, y, got)
					}
				}
			}
		})
	}
}

func TestColorAlphaByteLayout(t *testing.T) {
	c := NewColorQuadA(1, 2, 3, 4)

	bgra := CreateImage(1, 1, LayoutColorAlpha, OrderBGRA)
	SetPixel(bgra, 0, 0, c)
	if string(bgra.Data) != "\x01\x02\x03\x04" {
		t.Errorf("BGRA bytes = %v", bgra.Data)
	}

	rgba := CreateImage(1, 1, LayoutColorAlpha, OrderRGBA)
	SetPixel(rgba, 0, 0, c)
	if string(rgba.Data) != "\x03\x02\x01\x04" {
		t.Errorf("RGBA bytes = %v", rgba.Data)
	}

	color := CreateImage(1, 1, LayoutColor, OrderRGBA)
	SetPixel(color, 0, 0, c)
	if string(color.Data) != "\x01\x02\x03" {
		t.Errorf("Color bytes = %v, want B,G,R regardless of order", color.Data)
	}
}

func TestOutOfBoundsIsNoOp(t *testing.T) {
	coords := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {100, 100}, {-5, -5}}
	for _, layout := range []Layout{LayoutGray, LayoutColor, LayoutColorAlpha} {
		img := CreateImage(3, 2, layout, NativeOrder)
		for _, p := range coords {
			SetPixel(img, p[0], p[1], NewColorQuad(255, 255, 255))
			if got := GetPixel(img, p[0], p[1]); got != (ColorQuad{}) {
				t.Errorf("%v GetPixel%v = %+v, want zero sentinel", layout, p, got)
			}
		}
		for i, b := range img.Data {
			if b != 0 {
				t.Fatalf("%v byte %d written by out-of-range SetPixel", layout, i)
			}
		}
	}

	SetPixel(nil, 0, 0, Signal)
	if got := GetPixel(nil, 0, 0); got != (ColorQuad{}) {
		t.Errorf("GetPixel(nil) = %+v", got)
	}
}

func TestFill(t *testing.T) {
	img := CreateImage(3, 3, LayoutColorAlpha, OrderRGBA)
	Fill(img, Signal)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if GetPixel(img, x, y) != Signal {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestParseColorQuad(t *testing.T) {
	c, err := ParseColorQuad("0, 255,0")
	if err != nil || c != Signal {
		t.Errorf("ParseColorQuad = %+v, %v", c, err)
	}
	c, err = ParseColorQuad("1,2,3,4")
	if err != nil || c != NewColorQuadA(1, 2, 3, 4) {
		t.Errorf("ParseColorQuad with alpha = %+v, %v", c, err)
	}
	for _, bad := range []string{"", "1,2", "1,2,300", "a,b,c", "1,2,3,4,5"} {
		if _, err := ParseColorQuad(bad); err == nil {
			t.Errorf("ParseColorQuad(%q) expected error", bad)
		}
	}
}

func TestReorder(t *testing.T) {
	img := CreateImage(2, 1, LayoutColorAlpha, OrderBGRA)
	SetPixel(img, 1, 0, NewColorQuadA(1, 2, 3, 4))
	Reorder(img, OrderRGBA)
	if img.Order != OrderRGBA {
		t.Fatalf("Order = %v", img.Order)
	}
	if got := GetPixel(img, 1, 0); got != NewColorQuadA(1, 2, 3, 4) {
		t.Errorf("logical pixel changed by Reorder: %+v", got)
	}
	if img.Data[4] != 3 {
		t.Errorf("bytes not swapped: %v", img.Data)
	}
}
