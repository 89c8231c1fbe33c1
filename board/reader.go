package board

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/pxlsdump/info"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func mapPixels(dst, src []byte, offset, width int, colors []color.NRGBA) error {
	for n, idx := range src {
		if idx == Unset {
			// dst is freshly allocated so already transparent black
			continue
		}
		if int(idx) >= len(colors) {
			pos := offset + n
			return fmt.Errorf("%w: %d at (%d, %d), palette has %d colors", ErrBadIndex, idx, pos%width, pos/width, len(colors))
		}
		c := colors[idx]
		p := dst[n*bytesPerPixel : (n+1)*bytesPerPixel : (n+1)*bytesPerPixel]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return nil
}

// Map converts the raw board data b into a row-major RGBA buffer using the
// dimensions and palette in i. Unset pixels are transparent black, all
// others are opaque.
func Map(b []byte, i *info.Info) ([]byte, error) {
	if i.Width < 0 || i.Height < 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrSize, i.Width, i.Height)
	}
	if len(b) != i.Pixels() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrSize, len(b), i.Pixels(), i.Width, i.Height)
	}

	colors, err := i.Palette.Colors()
	if err != nil {
		return nil, err
	}

	pix := make([]byte, len(b)*bytesPerPixel)
	if err := mapBands(pix, b, i.Width, colors); err != nil {
		return nil, err
	}

	return pix, nil
}

// Decode reads exactly the number of bytes required by i from r and returns
// the mapped board as an image.
func Decode(r io.Reader, i *info.Info) (*image.NRGBA, error) {
	if i.Width < 0 || i.Height < 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrSize, i.Width, i.Height)
	}

	b := make([]byte, i.Pixels())
	if err := readFull(r, b); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, fmt.Errorf("%w: not enough data for %dx%d", ErrSize, i.Width, i.Height)
	}

	var tmp [1]byte
	if n, err := r.Read(tmp[:]); n != 0 || (err != nil && err != io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: too much data for %dx%d", ErrSize, i.Width, i.Height)
	}

	pix, err := Map(b, i)
	if err != nil {
		return nil, err
	}

	return &image.NRGBA{
		Pix:    pix,
		Stride: i.Width * bytesPerPixel,
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}, nil
}
