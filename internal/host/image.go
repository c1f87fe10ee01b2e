package host

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Image is an image open in the host. Its dirty count is owned by the Host and
// read through Host.IsDirty.
type Image struct {
	ID       uuid.UUID
	Path     string
	Format   string
	Pixels   image.Image
	Width    int
	Height   int
	LoadedAt time.Time

	dirty int
	seq   uint64
}

// Name is the file name the image was loaded from.
func (img *Image) Name() string {
	return filepath.Base(img.Path)
}

// Title is the window title for one display of the image, e.g.
// "*[group.jpg] (imported)-2" while it has unsaved changes.
func Title(img *Image, displayID int, dirty bool) string {
	title := fmt.Sprintf("[%s] (imported)-%d", img.Name(), displayID)
	if dirty {
		return "*" + title
	}
	return title
}
