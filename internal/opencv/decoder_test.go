package opencv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromExtension(t *testing.T) {
	testCases := map[string]string{
		"a.TIF":      "tiff",
		"a.jpeg":     "jpeg",
		"scan.jp2":   "jpeg2000",
		"raw.ppm":    "pnm",
		"photo.exr":  "exr",
		"no-suffix":  "unknown",
		"dir/x.webp": "webp",
	}

	for in, want := range testCases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, formatFromExtension(in))
		})
	}
}
