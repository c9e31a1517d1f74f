package ir

import (
	"errors"
	"testing"
)

func TestCreateImage(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		bpp    int
	}{
		{"gray", LayoutGray, 1},
		{"color", LayoutColor, 3},
		{"color alpha", LayoutColorAlpha, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := CreateImage(7, 5, tt.layout, NativeOrder)
			if img.Cols != 7 || img.Rows != 5 {
				t.Errorf("geometry = %dx%d, want 7x5", img.Cols, img.Rows)
			}
			if img.Stride != 7*tt.bpp {
				t.Errorf("Stride = %d, want %d", img.Stride, 7*tt.bpp)
			}
			if len(img.Data) != img.Stride*img.Rows {
				t.Errorf("len(Data) = %d, want %d", len(img.Data), img.Stride*img.Rows)
			}
		})
	}
}

func TestCreateImageF(t *testing.T) {
	f := CreateImageF(4, 3, FloatColor)
	if f.Stride != 4*3*4 {
		t.Errorf("Stride = %d, want 48", f.Stride)
	}
	if len(f.Data) != 4*3*3 {
		t.Errorf("len(Data) = %d, want 36", len(f.Data))
	}
	g := CreateImageF(4, 3, FloatGray)
	if g.Stride != 16 || len(g.Data) != 12 {
		t.Errorf("gray stride/len = %d/%d, want 16/12", g.Stride, len(g.Data))
	}
}

func TestCreateImagePanicsOnBadGeometry(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrAllocation) {
			t.Fatalf("recovered %v, want error wrapping ErrAllocation", r)
		}
	}()
	CreateImage(-1, 4, LayoutColor, NativeOrder)
}

func TestNewImageWithStridePadding(t *testing.T) {
	img := NewImageWithStride(3, 2, 16, LayoutColorAlpha, OrderBGRA)
	SetPixel(img, 2, 1, NewColorQuad(1, 2, 3))
	if got := GetPixel(img, 2, 1); got != NewColorQuad(1, 2, 3) {
		t.Errorf("GetPixel = %+v", got)
	}
	if len(img.Row(1)) != 12 {
		t.Errorf("Row length = %d, want 12", len(img.Row(1)))
	}
	if img.Data[16+8] != 1 {
		t.Errorf("pixel not written at stride offset")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	img := CreateImage(2, 2, LayoutGray, NativeOrder)
	img.Release()
	img.Release()
	if !img.Released() {
		t.Fatal("image not released")
	}
	SetPixel(img, 0, 0, NewColorQuad(1, 1, 1))
	if got := GetPixel(img, 0, 0); got != (ColorQuad{}) {
		t.Errorf("GetPixel on released image = %+v, want zero", got)
	}

	var nilImg *Image
	nilImg.Release()

	f := CreateImageF(2, 2, FloatGray)
	f.Release()
	f.Release()
	if f.Row(0) != nil {
		t.Error("released float image still returns rows")
	}
}

func TestClone(t *testing.T) {
	img := CreateImage(2, 2, LayoutColor, NativeOrder)
	SetPixel(img, 1, 1, NewColorQuad(9, 8, 7))
	c := img.Clone()
	SetPixel(img, 1, 1, NewColorQuad(0, 0, 0))
	if got := GetPixel(c, 1, 1); got.B != 9 || got.G != 8 || got.R != 7 {
		t.Errorf("clone shares memory: %+v", got)
	}
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"rgba": LayoutColorAlpha, "bgr": LayoutColor, "gray": LayoutGray} {
		got, err := ParseLayout(in)
		if err != nil || got != want {
			t.Errorf("ParseLayout(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLayout("cmyk"); err == nil {
		t.Error("expected error for cmyk")
	}
}
