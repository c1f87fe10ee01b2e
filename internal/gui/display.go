package gui

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/c-sanders/FaceDetect-Plugin/internal/gui/components"
	"github.com/c-sanders/FaceDetect-Plugin/internal/host"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

type imageWindow struct {
	image  *host.Image
	window fyne.Window
}

// WindowDisplay opens one window per displayed image. It implements
// host.Display and may be called from any goroutine.
type WindowDisplay struct {
	app      fyne.App
	host     *host.Host
	logger   logger.Logger
	onChange func()

	mu      sync.Mutex
	windows map[int]*imageWindow
}

func NewWindowDisplay(a fyne.App, h *host.Host, log logger.Logger) *WindowDisplay {
	if log == nil {
		log = logger.Nop()
	}
	return &WindowDisplay{
		app:     a,
		host:    h,
		logger:  log,
		windows: make(map[int]*imageWindow),
	}
}

// SetOnChange registers fn to run on the UI goroutine whenever a window opens
// or closes.
func (d *WindowDisplay) SetOnChange(fn func()) {
	d.onChange = fn
}

func (d *WindowDisplay) Show(img *host.Image, displayID int) error {
	title := host.Title(img, displayID, d.host.IsDirty(img))

	fyne.Do(func() {
		display := components.NewImageDisplay(img.Pixels)

		window := d.app.NewWindow(title)
		window.SetContent(display.GetContainer())
		window.Resize(display.PreferredSize())
		window.SetOnClosed(func() {
			d.mu.Lock()
			delete(d.windows, displayID)
			d.mu.Unlock()

			d.host.CloseDisplay(img, displayID)
			d.logger.Debug("WindowDisplay", "image window closed", map[string]interface{}{
				"display": displayID,
				"path":    img.Path,
			})
			d.changed()
		})

		d.mu.Lock()
		d.windows[displayID] = &imageWindow{image: img, window: window}
		d.mu.Unlock()

		window.Show()
		d.changed()
	})

	d.logger.Info("WindowDisplay", "image displayed", map[string]interface{}{
		"display": displayID,
		"title":   title,
	})
	return nil
}

// Refresh retitles every window showing img. It is queued behind any pending
// Show so a window opened for img is always updated.
func (d *WindowDisplay) Refresh(img *host.Image, dirty bool) {
	fyne.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for id, w := range d.windows {
			if w.image.ID == img.ID {
				w.window.SetTitle(host.Title(img, id, dirty))
			}
		}
	})
}

// CloseAll closes every image window. Must be called on the UI goroutine.
func (d *WindowDisplay) CloseAll() {
	d.mu.Lock()
	windows := make([]fyne.Window, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w.window)
	}
	d.mu.Unlock()

	for _, w := range windows {
		w.Close()
	}
}

func (d *WindowDisplay) changed() {
	if d.onChange != nil {
		d.onChange()
	}
}
