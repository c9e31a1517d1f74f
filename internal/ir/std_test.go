package ir

import (
	"image"
	"image/color"
	"testing"
)

func TestFromStdLayouts(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	for _, order := range orders {
		img := FromStd(src, LayoutColorAlpha, order)
		if got := GetPixel(img, 0, 0); got != NewColorQuadA(50, 100, 200, 128) {
			t.Errorf("%v ColorAlpha = %+v", order, got)
		}
	}

	bgr := FromStd(src, LayoutColor, NativeOrder)
	if string(bgr.Data[3:6]) != "\x1e\x14\x0a" {
		t.Errorf("Color bytes = %v, want B,G,R", bgr.Data)
	}

	gray := FromStd(src, LayoutGray, NativeOrder)
	if got, want := gray.Data[1], Luma(10, 20, 30); got != want {
		t.Errorf("Gray = %d, want %d", got, want)
	}
}

func TestFromStdGrayFastPath(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 5, 5))
	src.SetGray(4, 4, color.Gray{Y: 77})
	img := FromStd(src, LayoutGray, NativeOrder)
	if img.Cols != 3 || img.Rows != 2 {
		t.Fatalf("geometry = %dx%d", img.Cols, img.Rows)
	}
	if GetPixel(img, 2, 1).A != 77 {
		t.Errorf("offset bounds not honoured: %v", img.Data)
	}
}

func TestFromStdYCbCr(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	for i := range src.Y {
		src.Y[i] = 128
	}
	for i := range src.Cb {
		src.Cb[i], src.Cr[i] = 128, 128
	}
	img := FromStd(src, LayoutColorAlpha, OrderBGRA)
	got := GetPixel(img, 3, 3)
	if absDiff(got.R, 128) > 1 || absDiff(got.G, 128) > 1 || absDiff(got.B, 128) > 1 || got.A != 255 {
		t.Errorf("YCbCr mid-gray = %+v", got)
	}
}

func TestLumaOfGrayIsIdentity(t *testing.T) {
	for v := 0; v < 256; v++ {
		if got := Luma(uint8(v), uint8(v), uint8(v)); got != uint8(v) {
			t.Fatalf("Luma(%d,%d,%d) = %d", v, v, v, got)
		}
	}
}

func TestToStdRoundTrip(t *testing.T) {
	for _, layout := range []Layout{LayoutGray, LayoutColor, LayoutColorAlpha} {
		for _, order := range orders {
			img := CreateImage(5, 3, layout, order)
			fillPattern(img)
			back := FromStd(img.ToStd(), layout, order)
			for i := range img.Data {
				if img.Data[i] != back.Data[i] {
					t.Fatalf("%v/%v byte %d: %d -> %d", layout, order, i, img.Data[i], back.Data[i])
				}
			}
		}
	}
}
