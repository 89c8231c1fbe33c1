/*
Package info implements the canvas metadata document served by a pxls
instance at its /info endpoint.

Only the fields needed to render the board are modelled: the dimensions, the
ordered palette and the canvas code. Any other fields are ignored.
*/
package info

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned when a required field is missing or invalid.
var ErrMalformed = errors.New("info: malformed metadata")

// Color is a single palette slot.
type Color struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// Info describes a canvas.
type Info struct {
	CanvasCode string  `json:"canvasCode,omitempty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Palette    Palette `json:"palette"`
}

// Pixels returns the number of pixels on the canvas, which is also the
// expected length of the raw board data.
func (i *Info) Pixels() int {
	return i.Width * i.Height
}

type rawColor struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

type rawInfo struct {
	CanvasCode string      `json:"canvasCode"`
	Width      *int        `json:"width"`
	Height     *int        `json:"height"`
	Palette    *[]rawColor `json:"palette"`
}

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, a...))
}

// Decode reads a metadata document from r.
func Decode(r io.Reader) (*Info, error) {
	var raw rawInfo
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, malformed("%v", err)
	}

	switch {
	case raw.Width == nil:
		return nil, malformed("missing width")
	case raw.Height == nil:
		return nil, malformed("missing height")
	case raw.Palette == nil:
		return nil, malformed("missing palette")
	case *raw.Width < 0:
		return nil, malformed("negative width %d", *raw.Width)
	case *raw.Height < 0:
		return nil, malformed("negative height %d", *raw.Height)
	}

	i := &Info{
		CanvasCode: raw.CanvasCode,
		Width:      *raw.Width,
		Height:     *raw.Height,
		Palette:    make(Palette, len(*raw.Palette)),
	}
	for n, c := range *raw.Palette {
		if c.Value == nil {
			return nil, malformed("palette entry %d has no value", n)
		}
		i.Palette[n] = Color{Name: c.Name, Value: *c.Value}
	}

	return i, nil
}
