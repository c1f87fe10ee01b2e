package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imagesLabel *widget.Label
	activity    *widget.ProgressBarInfinite
}

func NewStatusBar() *StatusBar {
	statusLabel := widget.NewLabel("Ready")
	imagesLabel := widget.NewLabel("Images: 0")
	activity := widget.NewProgressBarInfinite()
	activity.Stop()
	activity.Hide()

	mainContainer := container.NewBorder(
		nil, nil,
		statusLabel,
		container.NewHBox(activity, widget.NewSeparator(), imagesLabel),
	)

	return &StatusBar{
		container:   mainContainer,
		statusLabel: statusLabel,
		imagesLabel: imagesLabel,
		activity:    activity,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) Status() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetImageCount(n int) {
	sb.imagesLabel.SetText(fmt.Sprintf("Images: %d", n))
}

func (sb *StatusBar) SetBusy(busy bool) {
	if busy {
		sb.activity.Show()
		sb.activity.Start()
		return
	}
	sb.activity.Stop()
	sb.activity.Hide()
}
