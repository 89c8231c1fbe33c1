package board

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	n int
}

var errFailed = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errFailed
	}
	w.n--
	return len(p), nil
}

func roundTrip(t *testing.T, pix []byte, width, height int) *image.NRGBA {
	t.Helper()

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, pix, width, height))

	m, err := png.Decode(buf)
	require.NoError(t, err)

	nm, ok := m.(*image.NRGBA)
	require.True(t, ok, "decoded %T", m)

	return nm
}

func TestEncodeRoundTrip(t *testing.T) {
	tables := []struct {
		name          string
		width, height int
		pix           []byte
	}{
		{"transparent and black", 2, 1, []byte{0, 0, 0, 255, 0, 0, 0, 0}},
		{"single", 1, 1, []byte{255, 136, 0, 255}},
		{"opaque only", 2, 2, []byte{1, 2, 3, 255, 4, 5, 6, 255, 7, 8, 9, 255, 10, 11, 12, 255}},
		{"column", 1, 3, []byte{0, 0, 0, 0, 255, 255, 255, 255, 0, 0, 0, 0}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			m := roundTrip(t, table.pix, table.width, table.height)
			assert.Equal(t, image.Rect(0, 0, table.width, table.height), m.Bounds())
			assert.Equal(t, table.pix, m.Pix)
		})
	}
}

func TestEncodeMappedBoard(t *testing.T) {
	const width, height = 300, 250

	b := make([]byte, width*height)
	for n := range b {
		b[n] = byte(n % 5)
		if n%7 == 0 {
			b[n] = Unset
		}
	}

	pix, err := Map(b, newInfo(width, height, "FFFFFF", "E4E4E4", "888888", "222222", "FFA7D1"))
	require.NoError(t, err)

	m := roundTrip(t, pix, width, height)
	assert.Equal(t, width, m.Bounds().Dx())
	assert.Equal(t, height, m.Bounds().Dy())
	assert.Equal(t, pix, m.Pix)
}

func TestEncodeHeader(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, []byte{0, 0, 0, 255}, 1, 1))

	b := buf.Bytes()
	assert.Equal(t, pngSignature, b[:8])
	assert.Equal(t, []byte("IHDR"), b[12:16])
	assert.Equal(t, byte(bitDepth), b[24])
	assert.Equal(t, byte(colorTypeRGBA), b[25])

	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Width)
	assert.Equal(t, 1, cfg.Height)
}

func TestEncodeInvalid(t *testing.T) {
	err := Encode(new(bytes.Buffer), []byte{0, 0, 0}, 1, 1)
	assert.True(t, errors.Is(err, ErrPixels), "got %v", err)

	err = Encode(new(bytes.Buffer), nil, -1, 1)
	assert.True(t, errors.Is(err, ErrPixels), "got %v", err)

	err = Encode(new(bytes.Buffer), []byte{}, 0, 0)
	assert.True(t, errors.Is(err, ErrEmpty), "got %v", err)
}

func TestEncodeWriteFailure(t *testing.T) {
	for n := 0; n < 4; n++ {
		err := Encode(&failingWriter{n: n}, []byte{0, 0, 0, 255}, 1, 1)
		assert.Equal(t, errFailed, err)
	}
}

func TestWriteFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "canvas.png")
	pix := []byte{0, 0, 0, 255, 0, 0, 0, 0}

	require.NoError(t, WriteFile(file, pix, 2, 1))

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, pix, m.(*image.NRGBA).Pix)
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "missing", "canvas.png"), []byte{0, 0, 0, 0}, 1, 1)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)

	// A mismatched buffer never touches the filesystem
	file := filepath.Join(dir, "canvas.png")
	err = WriteFile(file, []byte{0, 0, 0}, 1, 1)
	assert.True(t, errors.Is(err, ErrPixels))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}
