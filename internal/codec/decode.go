package codec

import (
	"fmt"

	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
)

// Decoded is raw decoded pixel data with its geometry, the form handed to
// callers that do not work with ir.Image.
type Decoded struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte // tightly packed, len = Width * Height * Channels
}

func layoutForChannels(channels int) (ir.Layout, error) {
	switch channels {
	case 1:
		return ir.LayoutGray, nil
	case 3:
		return ir.LayoutColor, nil
	case 4:
		return ir.LayoutColorAlpha, nil
	default:
		return 0, fmt.Errorf("unsupported channel count %d", channels)
	}
}

// Decode decodes encoded bytes to raw pixels with the requested channel
// count: 1 (luma), 3 (B,G,R) or 4 (the helper's ColorOrder).
func (h *Helper) Decode(data []byte, channels int) (*Decoded, error) {
	layout, err := layoutForChannels(channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	img, err := h.DecodeMemory(data, layout)
	if err != nil {
		return nil, err
	}
	defer img.Release()

	return &Decoded{
		Width:    img.Cols,
		Height:   img.Rows,
		Channels: channels,
		Pixels:   packed(img),
	}, nil
}

// DecodeBytes decodes data with a short-lived backend instance.
func DecodeBytes(data []byte, channels int, opts ...Option) (*Decoded, error) {
	h, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	return h.Decode(data, channels)
}
