// Package app wires the host, the procedure registry and the face detect
// plugin together and runs them with either the desktop or the batch front
// end.
package app

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/c-sanders/FaceDetect-Plugin/internal/batch"
	"github.com/c-sanders/FaceDetect-Plugin/internal/config"
	"github.com/c-sanders/FaceDetect-Plugin/internal/detector"
	"github.com/c-sanders/FaceDetect-Plugin/internal/facedetect"
	"github.com/c-sanders/FaceDetect-Plugin/internal/gui"
	"github.com/c-sanders/FaceDetect-Plugin/internal/host"
	"github.com/c-sanders/FaceDetect-Plugin/internal/imageio"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
	"github.com/c-sanders/FaceDetect-Plugin/internal/manifest"
	"github.com/c-sanders/FaceDetect-Plugin/internal/opencv"
	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

const (
	AppName         = "Face Detect"
	AppID           = "com.github.c-sanders.facedetect"
	AppVersion      = "1.0.0"
	MinWindowWidth  = 640
	MinWindowHeight = 200
)

type Application struct {
	config    config.Config
	logger    logger.Logger
	host      *host.Host
	registry  *procedure.Registry
	plugin    *facedetect.Plugin
	lifecycle *Lifecycle
}

// Option adjusts how New builds the application.
type Option func(*options)

type options struct {
	runner   detector.Runner
	decoder  imageio.Decoder
	manifest manifest.Vars
	vars     bool
	defaults *facedetect.Params
}

// WithRunner replaces the process runner used for the detector.
func WithRunner(r detector.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithDecoder replaces the decoder chosen by config.
func WithDecoder(d imageio.Decoder) Option {
	return func(o *options) { o.decoder = d }
}

// WithManifestVars sets the variables visible to manifest expressions.
func WithManifestVars(v manifest.Vars) Option {
	return func(o *options) {
		o.manifest = v
		o.vars = true
	}
}

// WithPluginDefaults replaces the registration defaults of the plugin.
func WithPluginDefaults(p facedetect.Params) Option {
	return func(o *options) { o.defaults = &p }
}

func New(cfg config.Config, log logger.Logger, opts ...Option) (*Application, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	decoder := o.decoder
	if decoder == nil {
		var err error
		if decoder, err = NewDecoder(cfg.Decoder); err != nil {
			return nil, err
		}
	}
	runner := o.runner
	if runner == nil {
		runner = &detector.ExecRunner{Logger: log, Timeout: cfg.DetectorTimeout}
	}

	h := host.New(decoder, log)
	reg := procedure.NewRegistry(log)

	pluginOpts := []facedetect.Option{facedetect.WithInterpreter(cfg.Interpreter)}
	if o.defaults != nil {
		pluginOpts = append(pluginOpts, facedetect.WithDefaults(*o.defaults))
	}
	plugin := facedetect.New(h, runner, log, pluginOpts...)
	if err := plugin.Register(reg); err != nil {
		return nil, fmt.Errorf("register %s: %w", facedetect.ProcedureName, err)
	}

	if len(cfg.Manifests) > 0 {
		vars := o.manifest
		if !o.vars {
			vars = manifest.DefaultVars()
		}
		m, err := manifest.Load(vars, cfg.Manifests...)
		if err != nil {
			return nil, err
		}
		if err := m.Apply(reg); err != nil {
			return nil, err
		}
		log.Info("Application", "manifests applied", map[string]interface{}{
			"paths":   cfg.Manifests,
			"plugins": len(m.Plugins),
		})
	}

	a := &Application{
		config:   cfg,
		logger:   log,
		host:     h,
		registry: reg,
		plugin:   plugin,
	}
	a.lifecycle = NewLifecycle(log)
	a.lifecycle.Register("host", h)

	log.Info("Application", "initialization complete", map[string]interface{}{
		"version":     AppVersion,
		"decoder":     cfg.Decoder,
		"interpreter": cfg.Interpreter,
	})
	return a, nil
}

// NewDecoder returns the decoder named in config.
func NewDecoder(name string) (imageio.Decoder, error) {
	switch name {
	case config.DecoderNative:
		return imageio.NativeDecoder{}, nil
	case config.DecoderOpenCV:
		return opencv.Decoder{}, nil
	case config.DecoderAuto, "":
		return imageio.Chain{imageio.NativeDecoder{}, opencv.Decoder{}}, nil
	default:
		return nil, fmt.Errorf("unknown decoder %q", name)
	}
}

func (a *Application) Registry() *procedure.Registry {
	return a.registry
}

func (a *Application) Host() *host.Host {
	return a.host
}

// Context is cancelled when the application shuts down.
func (a *Application) Context() context.Context {
	return a.lifecycle.Context()
}

// RunBatch runs one procedure with images reported to the log.
func (a *Application) RunBatch(req batch.Request) error {
	a.host.SetDisplay(host.LogDisplay{Logger: a.logger})
	return batch.New(a.registry, a.logger).Run(a.Context(), req)
}

// RunDesktop shows the main window and blocks until it is closed or the
// process is signalled.
func (a *Application) RunDesktop() error {
	fyneApp := fyneapp.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	display := gui.NewWindowDisplay(fyneApp, a.host, a.logger)
	a.host.SetDisplay(display)

	guiManager := gui.NewManager(a.Context(), window, a.registry, a.host, display, a.logger)
	a.lifecycle.Register("gui", guiManager)

	window.SetMainMenu(guiManager.MainMenu())
	window.SetContent(guiManager.GetMainContainer())
	window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		display.CloseAll()
		a.lifecycle.Shutdown()
	})

	stopped := make(chan struct{})
	go func() {
		select {
		case <-a.lifecycle.Done():
			fyne.Do(fyneApp.Quit)
		case <-stopped:
		}
	}()

	a.logger.Info("Application", "GUI displayed", nil)
	window.ShowAndRun()
	close(stopped)

	return nil
}

func (a *Application) Shutdown() {
	a.lifecycle.Shutdown()
}
