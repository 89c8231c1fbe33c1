/*
Package board implements decoding of raw pxls board data and encoding of the
resulting pixels as a PNG image.

The board data is one byte per pixel in row-major order, each byte being an
index into the canvas palette. The value 255 is reserved to mark a pixel that
has never been placed and is rendered fully transparent. Mapping a board
produces a non-premultiplied RGBA buffer of four bytes per pixel which is
written out as an 8-bit RGBA PNG without any channel reordering.
*/
package board

import "errors"

// Unset marks a pixel that has no color. It always wins over the palette,
// even when the palette has more than 255 entries.
const Unset = 0xff

const (
	bytesPerPixel = 4
	bandPixels    = 1 << 16
)

var (
	// ErrSize is returned when the board data does not match the canvas
	// dimensions.
	ErrSize = errors.New("board: data does not match canvas size")
	// ErrBadIndex is returned when a pixel refers to a palette entry that
	// doesn't exist.
	ErrBadIndex = errors.New("board: invalid palette index")
	// ErrPixels is returned when a pixel buffer does not match the image
	// dimensions.
	ErrPixels = errors.New("board: pixel buffer does not match image size")
	// ErrEmpty is returned when encoding an image with no pixels, PNG
	// requires at least one.
	ErrEmpty = errors.New("board: cannot encode an empty image")
)
