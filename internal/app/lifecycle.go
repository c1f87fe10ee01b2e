package app

import (
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
	"github.com/c-sanders/FaceDetect-Plugin/internal/shutdown"
)

// Lifecycle owns the shutdown order of the application components and stops
// them on SIGINT or SIGTERM.
type Lifecycle struct {
	*shutdown.Manager
	stopSignals func()
}

func NewLifecycle(log logger.Logger) *Lifecycle {
	m := shutdown.NewManager(log)
	return &Lifecycle{
		Manager:     m,
		stopSignals: m.Listen(),
	}
}

func (l *Lifecycle) Shutdown() {
	l.stopSignals()
	l.Manager.Shutdown()
}
