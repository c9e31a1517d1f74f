package pipeline

import (
	"bytes"
	"encoding/binary"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/duanzhengbing/parseProtobufFile/internal/codec"
	"github.com/duanzhengbing/parseProtobufFile/internal/icc"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/jpeg"
)

func newCodec(t *testing.T) codec.Codec {
	t.Helper()
	c, err := codec.New()
	if err != nil {
		t.Skipf("%s backend not available: %v", codec.Backend, err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// writeSolid saves a w x h single-colour PNG and returns its path.
func writeSolid(t *testing.T, c codec.Codec, name string, w, h int, col ir.ColorQuad) string {
	t.Helper()
	img := ir.CreateImage(w, h, ir.LayoutColor, ir.NativeOrder)
	ir.Fill(img, col)
	path := filepath.Join(t.TempDir(), name)
	if err := c.SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	return path
}

func TestRunDrawsRectAndPoint(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 40, 30, ir.NewColorQuad(128, 128, 128))
	out := filepath.Join(t.TempDir(), "out.png")

	res, err := Run(c, in, out, Options{
		Layout:      ir.LayoutColor,
		Rects:       []Rect{{Top: 5, Left: 5, Right: 30, Bottom: 20}},
		Points:      []image.Point{{X: 35, Y: 25}},
		StrokeWidth: 1,
		Color:       ir.Signal,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cols != 40 || res.Rows != 30 || res.Layout != ir.LayoutColor || res.OutputSize == 0 {
		t.Errorf("result %+v", res)
	}

	got, err := c.LoadBGRImage(out)
	if err != nil {
		t.Fatal(err)
	}
	green := ir.NewColorQuad(0, 255, 0)
	green.A = 0
	for _, p := range []image.Point{{5, 5}, {30, 20}, {17, 5}, {35, 25}} {
		if px := ir.GetPixel(got, p.X, p.Y); px != green {
			t.Errorf("%v = %+v, want stroke colour", p, px)
		}
	}
	if px := ir.GetPixel(got, 17, 12); px.G != 128 {
		t.Errorf("interior changed: %+v", px)
	}
}

func TestRunRotatedRectStaysInBounds(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 20, 20, ir.NewColorQuad(0, 0, 0))
	out := filepath.Join(t.TempDir(), "out.png")
	_, err := Run(c, in, out, Options{
		Layout:      ir.LayoutGray,
		Rects:       []Rect{{Top: -5, Left: -5, Right: 25, Bottom: 25, Roll: 45}},
		StrokeWidth: 3,
		Color:       ir.NewColorQuadA(0, 0, 0, 255),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunMask(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 4, 4, ir.NewColorQuad(200, 200, 200))

	mask := ir.CreateImage(4, 4, ir.LayoutColor, ir.NativeOrder)
	ir.Fill(mask, ir.NewColorQuad(255, 255, 255))
	ir.SetPixel(mask, 1, 2, ir.NewColorQuad(0, 0, 0))
	maskPath := filepath.Join(t.TempDir(), "mask.png")
	if err := c.SaveImage(maskPath, mask); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "out.png")
	if _, err := Run(c, in, out, Options{Layout: ir.LayoutColor, MaskPath: maskPath}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got, err := c.LoadBGRImage(out)
	if err != nil {
		t.Fatal(err)
	}
	if p := ir.GetPixel(got, 1, 2); p.B != 0 || p.G != 0 || p.R != 0 {
		t.Errorf("masked pixel = %+v", p)
	}
	if p := ir.GetPixel(got, 2, 2); p.B != 200 {
		t.Errorf("unmasked pixel = %+v", p)
	}
}

func TestRunMaskSizeMismatch(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 4, 4, ir.NewColorQuad(1, 2, 3))
	mask := writeSolid(t, c, "mask.png", 5, 4, ir.NewColorQuad(0, 0, 0))
	_, err := Run(c, in, filepath.Join(t.TempDir(), "out.png"), Options{Layout: ir.LayoutColor, MaskPath: mask})
	if err == nil || !strings.Contains(err.Error(), "mask is 5x4") {
		t.Errorf("err = %v", err)
	}
}

// profileOf returns a minimal, header-only ICC profile of the given space.
func profileOf(t *testing.T, space icc.Space) *icc.Profile {
	t.Helper()
	data := make([]byte, 256)
	binary.BigEndian.PutUint32(data, 256)
	copy(data[12:], "mntr")
	copy(data[16:], space)
	copy(data[36:], "acsp")
	p, err := icc.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunEmbedsICC(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 16, 16, ir.NewColorQuad(10, 20, 30))
	out := filepath.Join(t.TempDir(), "out.jpg")
	profile := profileOf(t, icc.SpaceRGB)

	if _, err := Run(c, in, out, Options{Layout: ir.LayoutColor, ICC: profile}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	info, err := jpeg.GetInfo(data)
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if !bytes.Equal(info.ICC, profile.Data) {
		t.Errorf("embedded ICC is %d bytes, want %d", len(info.ICC), len(profile.Data))
	}
	if info.Width != 16 || info.Height != 16 {
		t.Errorf("dimensions %dx%d", info.Width, info.Height)
	}
}

func TestRunRejectsMismatchedICC(t *testing.T) {
	c := newCodec(t)
	in := writeSolid(t, c, "in.png", 4, 4, ir.NewColorQuad(10, 20, 30))
	dir := t.TempDir()

	tests := []struct {
		name   string
		out    string
		layout ir.Layout
		space  icc.Space
	}{
		{"rgb profile on gray", "gray.jpg", ir.LayoutGray, icc.SpaceRGB},
		{"gray profile on colour", "bgr.jpg", ir.LayoutColor, icc.SpaceGray},
		{"cmyk profile", "rgba.jpg", ir.LayoutColorAlpha, icc.SpaceCMYK},
		{"png output", "bgr.png", ir.LayoutColor, icc.SpaceRGB},
	}
	for _, tt := range tests {
		out := filepath.Join(dir, tt.out)
		if _, err := Run(c, in, out, Options{Layout: tt.layout, ICC: profileOf(t, tt.space)}); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
		if _, err := os.Stat(out); err == nil {
			t.Errorf("%s: output was written", tt.name)
		}
	}

	gray := filepath.Join(dir, "ok.jpg")
	if _, err := Run(c, in, gray, Options{Layout: ir.LayoutGray, ICC: profileOf(t, icc.SpaceGray)}); err != nil {
		t.Errorf("gray profile on gray: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	c := newCodec(t)
	dir := t.TempDir()
	if _, err := Run(c, filepath.Join(dir, "missing.png"), filepath.Join(dir, "o.png"), Options{Layout: ir.LayoutColor}); err == nil {
		t.Error("missing input accepted")
	}
	in := writeSolid(t, c, "in.png", 2, 2, ir.NewColorQuad(1, 2, 3))
	if _, err := Run(c, in, filepath.Join(dir, "o.gif"), Options{Layout: ir.LayoutColor}); err == nil {
		t.Error("unsupported output accepted")
	}
	if _, err := Load(c, in, ir.Layout(9)); err == nil {
		t.Error("bad layout accepted")
	}
	if _, err := Run(c, in, filepath.Join(dir, "o.png"), Options{Layout: ir.LayoutGray, MaskPath: in}); err == nil {
		t.Error("mask on gray image accepted")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, layout := range []ir.Layout{ir.LayoutGray, ir.LayoutColor, ir.LayoutColorAlpha} {
		img := ir.CreateImage(16, 16, layout, ir.OrderRGBA)
		for i := range img.Data {
			img.Data[i] = uint8(i * 37)
		}
		if d := RoundTrip(img); d > 1 {
			t.Errorf("%v: deviation %d", layout, d)
		}
	}
	if d := RoundTrip(nil); d != 0 {
		t.Errorf("nil: %d", d)
	}
}
