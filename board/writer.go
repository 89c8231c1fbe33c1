package board

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

const (
	colorTypeRGBA = 6
	bitDepth      = 8
	maxChunkSize  = 1 << 20
	maxDimension  = 1<<31 - 1
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type encoder struct {
	w   io.Writer
	err error

	width, height int
	pix           []byte
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) writeChunk(name string, b []byte) {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(b)))
	copy(header[4:], name)

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(b)

	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	e.write(header[:])
	e.write(b)
	e.write(footer[:])
}

func (e *encoder) writeIHDR() {
	var b [13]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(e.width))
	binary.BigEndian.PutUint32(b[4:8], uint32(e.height))
	b[8] = bitDepth
	b[9] = colorTypeRGBA
	// Compression, filter and interlace methods are all zero
	e.writeChunk("IHDR", b[:])
}

func (e *encoder) writeIDATs() {
	if e.err != nil {
		return
	}

	buf := new(bytes.Buffer)
	zw, err := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
	if err != nil {
		e.err = err
		return
	}

	// Every row uses filter type 0, the pixels are stored as they are
	stride := e.width * bytesPerPixel
	for y := 0; y < e.height; y++ {
		if _, e.err = zw.Write([]byte{0}); e.err != nil {
			return
		}
		if _, e.err = zw.Write(e.pix[y*stride : (y+1)*stride]); e.err != nil {
			return
		}
	}
	if e.err = zw.Close(); e.err != nil {
		return
	}

	b := buf.Bytes()
	for len(b) > 0 {
		n := min(len(b), maxChunkSize)
		e.writeChunk("IDAT", b[:n])
		b = b[n:]
	}
}

func (e *encoder) encode() error {
	e.write(pngSignature)
	e.writeIHDR()
	e.writeIDATs()
	e.writeChunk("IEND", nil)
	return e.err
}

func validate(pix []byte, width, height int) error {
	switch {
	case width < 0 || height < 0 || width > maxDimension || height > maxDimension:
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrPixels, width, height)
	case len(pix) != width*height*bytesPerPixel:
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrPixels, len(pix), width*height*bytesPerPixel, width, height)
	case width == 0 || height == 0:
		return ErrEmpty
	}
	return nil
}

// Encode writes pix, a row-major RGBA buffer of the given dimensions, to w
// as an 8-bit RGBA PNG.
func Encode(w io.Writer, pix []byte, width, height int) error {
	if err := validate(pix, width, height); err != nil {
		return err
	}

	e := encoder{
		w:      w,
		width:  width,
		height: height,
		pix:    pix,
	}

	return e.encode()
}

// WriteFile encodes pix as a PNG and writes it to the named file. The buffer
// is validated before the file is created. If writing fails part way through
// the file is left as it is and may be truncated.
func WriteFile(file string, pix []byte, width, height int) error {
	if err := validate(pix, width, height); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Encode(w, pix, width, height); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return f.Close()
}
