// Package icc carries ICC profiles from a file into saved JPEGs. Profiles
// are checked against the pixel layout they will tag and otherwise passed
// through untouched; no colour transform is applied.
package icc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
)

var (
	ErrNotProfile     = errors.New("icc: not a profile")
	ErrLayoutMismatch = errors.New("icc: profile does not fit layout")
)

// Space is a data colour space signature, e.g. "RGB " or "GRAY".
type Space string

const (
	SpaceGray Space = "GRAY"
	SpaceRGB  Space = "RGB "
	SpaceCMYK Space = "CMYK"
)

// Channels is the number of device channels the space describes, or 0 for
// spaces a layout can never carry.
func (s Space) Channels() int {
	switch s {
	case SpaceGray:
		return 1
	case SpaceRGB:
		return 3
	case SpaceCMYK:
		return 4
	}
	return 0
}

func (s Space) String() string { return strings.TrimRight(string(s), " ") }

// Profile is a validated profile plus the header fields the tools use.
type Profile struct {
	Data    []byte
	Space   Space
	Class   string // device class signature, e.g. "mntr"
	Version [3]uint8
}

// The header is 128 bytes; these are the offsets read from it.
const (
	headerLen    = 128
	offSize      = 0
	offVersion   = 8
	offClass     = 12
	offSpace     = 16
	offSignature = 36
)

// Parse validates data as a profile. The declared size must match len(data)
// so a truncated file is caught before it is embedded.
func Parse(data []byte) (*Profile, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrNotProfile, len(data))
	}
	if string(data[offSignature:offSignature+4]) != "acsp" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrNotProfile, data[offSignature:offSignature+4])
	}
	if n := binary.BigEndian.Uint32(data[offSize:]); int64(n) != int64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrNotProfile, n, len(data))
	}
	return &Profile{
		Data:    data,
		Space:   Space(data[offSpace : offSpace+4]),
		Class:   string(data[offClass : offClass+4]),
		Version: [3]uint8{data[offVersion], data[offVersion+1] >> 4, data[offVersion+1] & 0x0f},
	}, nil
}

// Read loads and validates a profile file.
func Read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Fits reports whether p may tag pixels of the given layout: GRAY profiles
// for Gray images, RGB profiles for Color and ColorAlpha. Alpha is not a
// device channel.
func (p *Profile) Fits(layout ir.Layout) error {
	want := SpaceRGB
	if layout == ir.LayoutGray {
		want = SpaceGray
	}
	if p.Space != want {
		return fmt.Errorf("%w: %s profile for %v pixels", ErrLayoutMismatch, p.Space, layout)
	}
	return nil
}

func (p *Profile) String() string {
	return fmt.Sprintf("%s %s v%d.%d.%d, %d bytes",
		p.Space, strings.TrimRight(p.Class, " "), p.Version[0], p.Version[1], p.Version[2], len(p.Data))
}
