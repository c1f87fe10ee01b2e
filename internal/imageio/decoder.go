// Package imageio turns image files into image.Image values for the host.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decoder reads the image stored at path and reports its format name.
type Decoder interface {
	Decode(path string) (image.Image, string, error)
}

// NativeDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP without cgo.
type NativeDecoder struct{}

func (NativeDecoder) Decode(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	r := bufio.NewReader(file)
	head, err := r.Peek(512)
	if err != nil && len(head) == 0 {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	// TIFF and WebP are not sniffed by net/http, so only reject content that
	// is clearly text.
	if ctype := http.DetectContentType(head); strings.HasPrefix(ctype, "text/") {
		return nil, "", fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, path, ctype)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// Chain tries each decoder in turn and moves on only when a decoder does not
// recognise the format.
type Chain []Decoder

func (c Chain) Decode(path string) (image.Image, string, error) {
	err := fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	for _, d := range c {
		var img image.Image
		var format string
		img, format, err = d.Decode(path)
		if err == nil {
			return img, format, nil
		}
		if !errors.Is(err, ErrUnsupportedFormat) {
			return nil, "", err
		}
	}
	return nil, "", err
}
