// Package codec loads and saves ir.Image values through exactly one native
// codec backend. The backend is chosen at build time:
//
//	(no tag)                the compact pure-Go decoder/encoder
//	-tags opencv            OpenCV through gocv
//	-tags gdiplus (windows) the GDI+ platform imaging API
//
// The consuming build must select exactly one backend; enabling two fails
// to compile.
package codec

import (
	"errors"
	"fmt"
	"os"

	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrDecode            = errors.New("codec: decode failed")
	ErrEncode            = errors.New("codec: encode failed")
	ErrUnsupportedFormat = errors.New("codec: unsupported output format")
	ErrNilImage          = errors.New("codec: nil image")
	ErrClosed            = errors.New("codec: backend closed")
)

// DefaultJPEGQuality matches the compact encoder's default.
const DefaultJPEGQuality = 85

// Codec is the capability set every backend provides. Load methods return
// a nil image and an error wrapping ErrDecode on any failure, including a
// missing file or a closed backend. SaveImage failures other than a nil
// image or an unsupported extension wrap ErrEncode. SaveImage never
// modifies img.
type Codec interface {
	LoadRGBAImage(path string) (*ir.Image, error)
	LoadBGRImage(path string) (*ir.Image, error)
	LoadGrayImage(path string) (*ir.Image, error)
	SaveImage(path string, img *ir.Image) error
	DecodeMemory(data []byte, layout ir.Layout) (*ir.Image, error)
	Name() string
	Close() error
}

var _ Codec = (*Helper)(nil)

// Option configures a Helper.
type Option func(*base)

// WithLogger sets the logger for load/save diagnostics. Without it,
// warnings go to stderr.
func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

// WithOrder sets the ColorOrder of loaded 4-channel images.
func WithOrder(o ir.ColorOrder) Option {
	return func(b *base) { b.order = o }
}

// WithJPEGQuality sets the JPEG quality (1-100) used by SaveImage.
func WithJPEGQuality(q int) Option {
	return func(b *base) {
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		b.quality = q
	}
}

// base carries the state shared by every backend variant.
type base struct {
	log     *zap.Logger
	order   ir.ColorOrder
	quality int
	closed  bool
}

// diagnostics is where the default logger writes.
var diagnostics zapcore.WriteSyncer = zapcore.Lock(os.Stderr)

func defaultLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), diagnostics, zapcore.WarnLevel))
}

func newBase(opts []Option) base {
	b := base{
		log:     defaultLogger(),
		order:   ir.NativeOrder,
		quality: DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.log = b.log.With(zap.String("backend", Backend))
	return b
}

// Name reports the compiled-in backend.
func (h *Helper) Name() string { return Backend }

// LoadRGBAImage decodes path into a 4-channel image in the configured order.
func (h *Helper) LoadRGBAImage(path string) (*ir.Image, error) {
	return h.loadFile(path, ir.LayoutColorAlpha)
}

// LoadBGRImage decodes path into a 3-channel B,G,R image.
func (h *Helper) LoadBGRImage(path string) (*ir.Image, error) {
	return h.loadFile(path, ir.LayoutColor)
}

// LoadGrayImage decodes path into a single-channel luma image.
func (h *Helper) LoadGrayImage(path string) (*ir.Image, error) {
	return h.loadFile(path, ir.LayoutGray)
}

func (h *Helper) loadFile(path string, layout ir.Layout) (*ir.Image, error) {
	if h.closed {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrClosed)
	}
	img, err := h.load(path, layout)
	if err != nil {
		h.log.Warn("load failed", zap.String("path", path), zap.Stringer("layout", layout), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	h.log.Debug("loaded image",
		zap.String("path", path),
		zap.Stringer("layout", layout),
		zap.Int("cols", img.Cols),
		zap.Int("rows", img.Rows))
	return img, nil
}

// DecodeMemory decodes an encoded image held in memory.
func (h *Helper) DecodeMemory(data []byte, layout ir.Layout) (*ir.Image, error) {
	if h.closed {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrClosed)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrDecode)
	}
	img, err := h.decode(data, layout)
	if err != nil {
		h.log.Warn("memory decode failed", zap.Int("bytes", len(data)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// SaveImage encodes img to path. The format comes from the file name
// (".png" or ".jpg" only). Channel reordering happens on a private copy.
func (h *Helper) SaveImage(path string, img *ir.Image) error {
	if h.closed {
		return fmt.Errorf("%w: %w", ErrEncode, ErrClosed)
	}
	if img.Released() {
		h.log.Warn("save called with nil image", zap.String("path", path))
		return ErrNilImage
	}
	if img.Cols == 0 || img.Rows == 0 {
		h.log.Warn("save called with empty image", zap.String("path", path))
		return fmt.Errorf("%w: %s: empty %dx%d image", ErrEncode, path, img.Cols, img.Rows)
	}
	f := format.FromFilename(path)
	if f == format.Unknown {
		h.log.Warn(Backend+" image backend only supporting .png & .jpg saving", zap.String("path", path))
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err := h.save(path, f, img); err != nil {
		h.log.Warn("save failed", zap.String("path", path), zap.Stringer("format", f), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}
	h.log.Debug("saved image", zap.String("path", path), zap.Stringer("format", f))
	return nil
}

// Close releases backend resources. Further calls fail with ErrClosed;
// closing twice is a no-op.
func (h *Helper) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.release()
}

// packed returns img's pixels without row padding. The result is always a
// fresh slice.
func packed(img *ir.Image) []byte {
	rowLen := img.Cols * img.Layout.BytesPerPixel()
	out := make([]byte, rowLen*img.Rows)
	for y := 0; y < img.Rows; y++ {
		copy(out[y*rowLen:], img.Row(y))
	}
	return out
}
