// Package host holds the images that are open in the application and the
// facilities plugins use on them: loading from disk, opening a display and
// resetting the dirty state.
package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c-sanders/FaceDetect-Plugin/internal/imageio"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrNoDisplay    = errors.New("no display attached")
	ErrUnknownImage = errors.New("image is not open in the host")
)

// Display shows images to the user. Show is called once per DisplayNew;
// Refresh whenever the image state changes.
type Display interface {
	Show(img *Image, displayID int) error
	Refresh(img *Image, dirty bool)
}

type Host struct {
	mu          sync.RWMutex
	decoder     imageio.Decoder
	display     Display
	images      map[uuid.UUID]*Image
	displays    map[uuid.UUID][]int
	nextDisplay int
	loadSeq     uint64
	logger      logger.Logger
}

func New(decoder imageio.Decoder, log logger.Logger) *Host {
	if log == nil {
		log = logger.Nop()
	}
	return &Host{
		decoder:  decoder,
		images:   make(map[uuid.UUID]*Image),
		displays: make(map[uuid.UUID][]int),
		logger:   log,
	}
}

func (h *Host) SetDisplay(d Display) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.display = d
}

// FileLoad opens filename and registers it as a new image. rawFilename is the
// name as typed by the user and is only used in messages. Imported images
// start dirty since they have no native save file yet.
func (h *Host) FileLoad(ctx context.Context, filename, rawFilename string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rawFilename == "" {
		rawFilename = filename
	}

	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileNotFound, rawFilename, err)
		}
		return nil, fmt.Errorf("open %s: %w", rawFilename, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: is a directory", rawFilename)
	}

	start := time.Now()
	pixels, format, err := h.decoder.Decode(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", rawFilename, err)
	}

	bounds := pixels.Bounds()
	img := &Image{
		ID:       uuid.New(),
		Path:     filename,
		Format:   format,
		Pixels:   pixels,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		LoadedAt: time.Now(),
		dirty:    1,
	}

	h.mu.Lock()
	h.loadSeq++
	img.seq = h.loadSeq
	h.images[img.ID] = img
	h.mu.Unlock()

	h.logger.Info("Host", "image loaded", map[string]interface{}{
		"id":      img.ID.String(),
		"path":    filename,
		"format":  format,
		"width":   img.Width,
		"height":  img.Height,
		"load_ms": time.Since(start).Milliseconds(),
	})
	return img, nil
}

// DisplayNew opens a new view of img and returns its display id.
func (h *Host) DisplayNew(img *Image) (int, error) {
	h.mu.Lock()
	if _, ok := h.images[img.ID]; !ok {
		h.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrUnknownImage, img.ID)
	}
	display := h.display
	if display == nil {
		h.mu.Unlock()
		return 0, ErrNoDisplay
	}
	h.nextDisplay++
	id := h.nextDisplay
	h.displays[img.ID] = append(h.displays[img.ID], id)
	h.mu.Unlock()

	if err := display.Show(img, id); err != nil {
		h.mu.Lock()
		h.removeDisplayLocked(img.ID, id)
		h.dropIfUndisplayedLocked(img)
		h.mu.Unlock()
		return 0, fmt.Errorf("display %s: %w", img.Name(), err)
	}
	return id, nil
}

// ImageCleanAll resets the dirty count of img so closing it does not ask
// about unsaved changes.
func (h *Host) ImageCleanAll(img *Image) error {
	h.mu.Lock()
	stored, ok := h.images[img.ID]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownImage, img.ID)
	}
	stored.dirty = 0
	display := h.display
	h.mu.Unlock()

	if display != nil {
		display.Refresh(stored, false)
	}
	return nil
}

// MarkDirty records an unsaved change to img.
func (h *Host) MarkDirty(img *Image) error {
	h.mu.Lock()
	stored, ok := h.images[img.ID]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownImage, img.ID)
	}
	stored.dirty++
	display := h.display
	h.mu.Unlock()

	if display != nil {
		display.Refresh(stored, true)
	}
	return nil
}

func (h *Host) IsDirty(img *Image) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stored, ok := h.images[img.ID]
	return ok && stored.dirty > 0
}

// Images returns the open images in load order.
func (h *Host) Images() []*Image {
	h.mu.RLock()
	defer h.mu.RUnlock()

	images := make([]*Image, 0, len(h.images))
	for _, img := range h.images {
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].seq < images[j].seq })
	return images
}

// Displays returns the display ids currently showing img.
func (h *Host) Displays(img *Image) []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]int(nil), h.displays[img.ID]...)
}

// CloseDisplay forgets one display of an image. The image itself is dropped
// once its last display is closed.
func (h *Host) CloseDisplay(img *Image, displayID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeDisplayLocked(img.ID, displayID)
	h.dropIfUndisplayedLocked(img)
}

// dropIfUndisplayedLocked forgets img once no display shows it.
func (h *Host) dropIfUndisplayedLocked(img *Image) {
	if len(h.displays[img.ID]) > 0 {
		return
	}
	if _, ok := h.images[img.ID]; !ok {
		return
	}
	delete(h.displays, img.ID)
	delete(h.images, img.ID)
	h.logger.Debug("Host", "image closed", map[string]interface{}{
		"id":   img.ID.String(),
		"path": img.Path,
	})
}

func (h *Host) removeDisplayLocked(id uuid.UUID, displayID int) {
	ids := h.displays[id]
	for i, d := range ids {
		if d == displayID {
			h.displays[id] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Shutdown drops every image.
func (h *Host) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Info("Host", "shutdown", map[string]interface{}{
		"open_images": len(h.images),
	})
	h.images = make(map[uuid.UUID]*Image)
	h.displays = make(map[uuid.UUID][]int)
}
