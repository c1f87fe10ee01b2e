package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/c-sanders/FaceDetect-Plugin/internal/imageio"
)

const (
	ScrollViewportWidth  = 320
	ScrollViewportHeight = 240
)

// ImageDisplay shows one image at no more than screen size, scrolling when
// the window is smaller than the image.
type ImageDisplay struct {
	container *fyne.Container
	image     *canvas.Image
	size      fyne.Size
}

func NewImageDisplay(img image.Image) *ImageDisplay {
	fitted := imageio.Fit(img, imageio.MaxScreenX, imageio.MaxScreenY)
	bounds := fitted.Bounds()
	size := fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy()))

	picture := canvas.NewImageFromImage(fitted)
	picture.FillMode = canvas.ImageFillOriginal
	picture.ScaleMode = canvas.ImageScaleSmooth
	picture.SetMinSize(size)

	scroll := container.NewScroll(picture)
	scroll.SetMinSize(fyne.NewSize(ScrollViewportWidth, ScrollViewportHeight))

	return &ImageDisplay{
		container: container.NewBorder(nil, nil, nil, nil, scroll),
		image:     picture,
		size:      size,
	}
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}

// PreferredSize is the displayed image size, at least the scroll viewport.
func (id *ImageDisplay) PreferredSize() fyne.Size {
	return id.size.Max(fyne.NewSize(ScrollViewportWidth, ScrollViewportHeight))
}
