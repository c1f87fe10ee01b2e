// Package opencv provides the OpenCV-backed image decoder. It covers formats
// the pure Go decoders do not (JPEG 2000, OpenEXR, PNM, ...) at the cost of
// requiring cgo and an OpenCV installation.
package opencv

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"github.com/c-sanders/FaceDetect-Plugin/internal/imageio"
)

type Decoder struct{}

func (Decoder) Decode(path string) (image.Image, string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, "", err
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, "", fmt.Errorf("%w: OpenCV could not read %s", imageio.ErrUnsupportedFormat, path)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, "", fmt.Errorf("convert %s: %w", path, err)
	}
	return img, formatFromExtension(path), nil
}

func formatFromExtension(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg", ".jpe":
		return "jpeg"
	case ".jp2":
		return "jpeg2000"
	case ".pbm", ".pgm", ".ppm", ".pnm":
		return "pnm"
	case "":
		return "unknown"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
