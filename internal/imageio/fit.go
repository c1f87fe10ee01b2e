package imageio

import (
	"image"

	"github.com/disintegration/imaging"
)

const (
	MaxScreenX = 1366
	MaxScreenY = 768
)

// Fit scales img down to fit within maxW x maxH, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}
