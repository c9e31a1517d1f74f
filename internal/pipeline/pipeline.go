// Package pipeline runs the load, annotate, save sequence behind the
// imagehelper commands.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/duanzhengbing/parseProtobufFile/internal/codec"
	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/icc"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/jpeg"
)

// Rect is an outline to draw. A non-zero Roll rotates it (degrees) about
// its centre.
type Rect struct {
	Top, Left, Right, Bottom int
	Roll                     int
}

// Options controls a pipeline run.
type Options struct {
	Layout      ir.Layout
	Rects       []Rect
	Points      []image.Point
	StrokeWidth int
	Color       ir.ColorQuad
	MaskPath    string       // black out where this image's luma is zero
	ICC         *icc.Profile // embedded into the output, which must be .jpg
}

// Result describes what was written.
type Result struct {
	Cols, Rows int
	Layout     ir.Layout
	OutputSize int64
}

// Load decodes path with the loader matching layout.
func Load(c codec.Codec, path string, layout ir.Layout) (*ir.Image, error) {
	switch layout {
	case ir.LayoutGray:
		return c.LoadGrayImage(path)
	case ir.LayoutColor:
		return c.LoadBGRImage(path)
	case ir.LayoutColorAlpha:
		return c.LoadRGBAImage(path)
	default:
		return nil, fmt.Errorf("unsupported layout %v", layout)
	}
}

// Run loads input, applies the drawing steps in opts, and saves to output.
func Run(c codec.Codec, input, output string, opts Options) (*Result, error) {
	if opts.ICC != nil {
		if format.FromFilename(output) != format.JPEG {
			return nil, fmt.Errorf("icc profile needs .jpg output, got %s", output)
		}
		if err := opts.ICC.Fits(opts.Layout); err != nil {
			return nil, err
		}
	}

	img, err := Load(c, input, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer img.Release()

	stroke := opts.StrokeWidth
	if stroke < 1 {
		stroke = 1
	}
	for _, r := range opts.Rects {
		if r.Roll != 0 {
			ir.DrawRotatedRect(img, r.Top, r.Left, r.Right, r.Bottom, r.Roll, stroke, opts.Color)
		} else {
			ir.DrawRect(img, r.Top, r.Left, r.Right, r.Bottom, stroke, opts.Color)
		}
	}
	for _, p := range opts.Points {
		ir.DrawPoint(img, p.X, p.Y, stroke, opts.Color)
	}

	if opts.MaskPath != "" {
		if img.Layout == ir.LayoutGray {
			return nil, errors.New("mask needs a colour image")
		}
		mask, err := Load(c, opts.MaskPath, ir.LayoutGray)
		if err != nil {
			return nil, fmt.Errorf("load mask: %w", err)
		}
		defer mask.Release()
		if mask.Cols != img.Cols || mask.Rows != img.Rows {
			return nil, fmt.Errorf("mask is %dx%d, image is %dx%d", mask.Cols, mask.Rows, img.Cols, img.Rows)
		}
		ir.DrawMask(img, mask)
	}

	if err := c.SaveImage(output, img); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	if opts.ICC != nil {
		if err := embedICC(output, opts.ICC.Data); err != nil {
			return nil, fmt.Errorf("embed icc: %w", err)
		}
	}

	fi, err := os.Stat(output)
	if err != nil {
		return nil, err
	}
	return &Result{Cols: img.Cols, Rows: img.Rows, Layout: img.Layout, OutputSize: fi.Size()}, nil
}

func embedICC(path string, profile []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := jpeg.EmbedICC(data, profile)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// RoundTrip converts img to floating point and back, and returns the largest
// per-channel deviation. Alpha is not compared since float images carry
// none.
func RoundTrip(img *ir.Image) int {
	f := ir.ToFloatImage(img)
	if f == nil {
		return 0
	}
	defer f.Release()
	back := ir.FromFloatImage(f, img.Order)
	defer back.Release()

	worst := 0
	for y := 0; y < img.Rows; y++ {
		for x := 0; x < img.Cols; x++ {
			a, b := ir.GetPixel(img, x, y), ir.GetPixel(back, x, y)
			if img.Layout == ir.LayoutGray {
				worst = max(worst, absDiff(a.A, b.A))
				continue
			}
			worst = max(worst, absDiff(a.B, b.B), absDiff(a.G, b.G), absDiff(a.R, b.R))
		}
	}
	return worst
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
