package info

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrBadHex is returned when a palette value is not a 6 digit hex color.
var ErrBadHex = errors.New("info: invalid color hex")

// Palette is the ordered list of colors, the board data indexes into it.
type Palette []Color

// ParseHex decodes an RRGGBB value, optionally prefixed with a single '#',
// into an opaque color.
func ParseHex(s string) (color.NRGBA, error) {
	v := strings.TrimPrefix(s, "#")
	if len(v) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}

	var b [3]byte
	if _, err := hex.Decode(b[:], []byte(v)); err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}

	return color.NRGBA{b[0], b[1], b[2], 0xff}, nil
}

// Colors decodes every entry in the palette.
func (p Palette) Colors() ([]color.NRGBA, error) {
	colors := make([]color.NRGBA, len(p))
	for i, c := range p {
		nc, err := ParseHex(c.Value)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		colors[i] = nc
	}
	return colors, nil
}
