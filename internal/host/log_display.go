package host

import "github.com/c-sanders/FaceDetect-Plugin/internal/logger"

// LogDisplay is the display used when running without a window system. It
// reports each displayed image through the logger.
type LogDisplay struct {
	Logger logger.Logger
}

func (d LogDisplay) Show(img *Image, displayID int) error {
	d.Logger.Info("Display", "image displayed", map[string]interface{}{
		"title":  Title(img, displayID, true),
		"path":   img.Path,
		"width":  img.Width,
		"height": img.Height,
	})
	return nil
}

func (d LogDisplay) Refresh(img *Image, dirty bool) {
	d.Logger.Debug("Display", "image state changed", map[string]interface{}{
		"path":  img.Path,
		"dirty": dirty,
	})
}
