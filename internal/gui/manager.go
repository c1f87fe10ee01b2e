// Package gui is the desktop front end: a main window whose menus are built
// from the registered procedures, a parameter dialog per procedure and one
// window per displayed image.
package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/c-sanders/FaceDetect-Plugin/internal/gui/components"
	"github.com/c-sanders/FaceDetect-Plugin/internal/host"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

const (
	FormWidth  = 560
	FormHeight = 360
)

type Manager struct {
	ctx        context.Context
	window     fyne.Window
	registry   *procedure.Registry
	host       *host.Host
	display    *WindowDisplay
	logger     logger.Logger
	isShutdown bool

	statusBar *components.StatusBar
}

func NewManager(ctx context.Context, window fyne.Window, reg *procedure.Registry, h *host.Host, display *WindowDisplay, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}

	m := &Manager{
		ctx:       ctx,
		window:    window,
		registry:  reg,
		host:      h,
		display:   display,
		logger:    log,
		statusBar: components.NewStatusBar(),
	}
	if display != nil {
		display.SetOnChange(m.refreshImageCount)
	}

	log.Info("GUIManager", "initialized", map[string]interface{}{
		"procedures": len(reg.List()),
	})
	return m
}

func (m *Manager) GetMainContainer() *fyne.Container {
	hint := widget.NewLabel("Choose a procedure from the menu to run it.")
	hint.Alignment = fyne.TextAlignCenter

	return container.NewBorder(
		nil,
		m.statusBar.GetContainer(),
		nil, nil,
		container.NewCenter(hint),
	)
}

// MainMenu is a File menu followed by the procedure menus.
func (m *Manager) MainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", m.openImage),
		fyne.NewMenuItem("Close All Images", func() {
			if m.display != nil {
				m.display.CloseAll()
			}
		}),
	)

	menus := append([]*fyne.Menu{fileMenu}, BuildMenus(m.registry.Menu(), m.Invoke)...)
	return fyne.NewMainMenu(menus...)
}

// BuildMenus turns the registry menu tree into Fyne menus. The first level
// below each root becomes a top level menu; roots with the same first level
// label share one menu.
func BuildMenus(roots []*procedure.MenuNode, invoke func(name string)) []*fyne.Menu {
	var menus []*fyne.Menu
	byLabel := make(map[string]*fyne.Menu)

	for _, root := range roots {
		for _, node := range root.Children {
			if node.IsLeaf() {
				continue
			}
			menu, ok := byLabel[node.Label]
			if !ok {
				menu = fyne.NewMenu(node.Label)
				byLabel[node.Label] = menu
				menus = append(menus, menu)
			}
			menu.Items = append(menu.Items, menuItems(node.Children, invoke)...)
		}
	}
	return menus
}

func menuItems(nodes []*procedure.MenuNode, invoke func(string)) []*fyne.MenuItem {
	items := make([]*fyne.MenuItem, 0, len(nodes))
	for _, node := range nodes {
		if node.IsLeaf() {
			name := node.Procedure
			items = append(items, fyne.NewMenuItem(node.Label+"...", func() { invoke(name) }))
			continue
		}
		item := fyne.NewMenuItem(node.Label, nil)
		item.ChildMenu = fyne.NewMenu(node.Label, menuItems(node.Children, invoke)...)
		items = append(items, item)
	}
	return items
}

// Invoke asks for the arguments of the named procedure and runs it.
func (m *Manager) Invoke(name string) {
	proc, err := m.registry.Lookup(name)
	if err != nil {
		m.ShowError(err)
		return
	}

	form := components.NewParameterForm(proc.Params, m.currentValues(proc), m.browse)

	title := proc.MenuLabel
	if title == "" {
		title = proc.Name
	}
	d := dialog.NewForm(title, "OK", "Cancel", form.Items(), func(ok bool) {
		if !ok {
			return
		}
		raw := form.Values()
		go m.run(proc, raw)
	}, m.window)
	d.Resize(fyne.NewSize(FormWidth, FormHeight))
	d.Show()
}

// currentValues pre-fills the dialog with the last successful arguments.
func (m *Manager) currentValues(proc *procedure.Procedure) map[string]string {
	last, ok := m.registry.LastArgs(proc.Name)
	if !ok {
		return nil
	}
	values := make(map[string]string, len(last))
	for name, v := range last {
		values[name] = fmt.Sprint(v)
	}
	return values
}

func (m *Manager) run(proc *procedure.Procedure, raw map[string]string) {
	label := proc.MenuLabel
	if label == "" {
		label = proc.Name
	}
	m.UpdateStatus(fmt.Sprintf("Running %s...", label), true)

	err := m.registry.Run(m.ctx, proc.Name, procedure.Interactive, raw)
	if err != nil {
		m.UpdateStatus(fmt.Sprintf("%s failed", label), false)
		m.ShowError(err)
		return
	}
	m.UpdateStatus(fmt.Sprintf("%s finished", label), false)
}

func (m *Manager) browse(onPicked func(string)) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			m.ShowError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		onPicked(path)
	}, m.window)
}

func (m *Manager) openImage() {
	m.browse(func(path string) {
		go func() {
			img, err := m.host.FileLoad(m.ctx, path, path)
			if err == nil {
				_, err = m.host.DisplayNew(img)
			}
			if err == nil {
				err = m.host.ImageCleanAll(img)
			}
			if err != nil {
				m.ShowError(err)
			}
		}()
	})
}

func (m *Manager) UpdateStatus(status string, busy bool) {
	fyne.Do(func() {
		m.statusBar.SetStatus(status)
		m.statusBar.SetBusy(busy)
		m.logger.Debug("GUIManager", "status updated", map[string]interface{}{
			"status": status,
		})
	})
}

func (m *Manager) refreshImageCount() {
	m.statusBar.SetImageCount(len(m.host.Images()))
}

func (m *Manager) ShowError(err error) {
	m.logger.Error("GUIManager", err, nil)

	fyne.Do(func() {
		dialog.ShowError(err, m.window)
	})
}

func (m *Manager) Shutdown() {
	if m.isShutdown {
		return
	}

	m.isShutdown = true
	m.logger.Info("GUIManager", "shutdown initiated", nil)
}
