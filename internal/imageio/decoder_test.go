package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func writeImage(t *testing.T, name string, encode func(f *os.File) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f))
	require.NoError(t, f.Close())
	return path
}

func TestNativeDecoder(t *testing.T) {
	src := testImage(8, 5)

	testCases := []struct {
		name   string
		file   string
		encode func(f *os.File) error
		format string
	}{
		{name: "png", file: "a.png", encode: func(f *os.File) error { return png.Encode(f, src) }, format: "png"},
		{name: "bmp", file: "a.bmp", encode: func(f *os.File) error { return bmp.Encode(f, src) }, format: "bmp"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeImage(t, tc.file, tc.encode)

			img, format, err := NativeDecoder{}.Decode(path)
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}
}

func TestNativeDecoder_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := NativeDecoder{}.Decode(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	text := filepath.Join(dir, "notes.jpg")
	require.NoError(t, os.WriteFile(text, []byte("this is not an image at all\n"), 0o644))
	_, _, err = NativeDecoder{}.Decode(text)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	junk := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(junk, []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff}, 0o644))
	_, _, err = NativeDecoder{}.Decode(junk)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

type stubDecoder struct {
	format string
	err    error
	called *int
}

func (s stubDecoder) Decode(string) (image.Image, string, error) {
	*s.called++
	if s.err != nil {
		return nil, "", s.err
	}
	return testImage(1, 1), s.format, nil
}

func TestChain(t *testing.T) {
	var first, second int

	chain := Chain{
		stubDecoder{err: ErrUnsupportedFormat, called: &first},
		stubDecoder{format: "exr", called: &second},
	}
	_, format, err := chain.Decode("x.exr")
	require.NoError(t, err)
	assert.Equal(t, "exr", format)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	boom := errors.New("corrupt")
	chain = Chain{
		stubDecoder{err: boom, called: &first},
		stubDecoder{format: "never", called: &second},
	}
	_, _, err = chain.Decode("x.png")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, second)

	_, _, err = Chain{}.Decode("x.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFit(t *testing.T) {
	small := testImage(100, 50)
	assert.Same(t, small, Fit(small, MaxScreenX, MaxScreenY))

	large := testImage(2000, 1000)
	fitted := Fit(large, MaxScreenX, MaxScreenY)
	assert.Equal(t, MaxScreenX, fitted.Bounds().Dx())
	assert.Equal(t, 683, fitted.Bounds().Dy())
}
