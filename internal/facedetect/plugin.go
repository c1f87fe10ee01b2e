// Package facedetect is the "Detect Faces" procedure: it shows the input
// image, runs the external detector script over it and shows the annotated
// result.
package facedetect

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/c-sanders/FaceDetect-Plugin/internal/config"
	"github.com/c-sanders/FaceDetect-Plugin/internal/detector"
	"github.com/c-sanders/FaceDetect-Plugin/internal/host"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// Registration metadata.
const (
	ProcedureName = "runPlugin"
	Blurb         = "Detect Faces in an Image."
	Author        = "Craig Sanders"
	Date          = "2019"
	MenuLabel     = "Detect Faces"
	MenuPath      = "<Image>/Image/Craig's Utilities/"
)

var ErrDetectorFailed = errors.New("face detector failed")

// Host is the part of the image host the procedure drives.
type Host interface {
	FileLoad(ctx context.Context, filename, rawFilename string) (*host.Image, error)
	DisplayNew(img *host.Image) (int, error)
	ImageCleanAll(img *host.Image) error
}

type Plugin struct {
	host        Host
	runner      detector.Runner
	logger      logger.Logger
	interpreter string
	defaults    Params
}

type Option func(*Plugin)

// WithInterpreter sets the interpreter used when the registered procedure
// does not name one.
func WithInterpreter(interpreter string) Option {
	return func(p *Plugin) { p.interpreter = interpreter }
}

// WithDefaults replaces the registration defaults.
func WithDefaults(defaults Params) Option {
	return func(p *Plugin) { p.defaults = defaults }
}

func New(h Host, runner detector.Runner, log logger.Logger, opts ...Option) *Plugin {
	if log == nil {
		log = logger.Nop()
	}
	p := &Plugin{
		host:        h,
		runner:      runner,
		logger:      log,
		interpreter: config.DefaultInterp,
		defaults:    DefaultParams(homeDir()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Procedure describes the plugin for the registry.
func (p *Plugin) Procedure() *procedure.Procedure {
	return &procedure.Procedure{
		Name:        ProcedureName,
		Blurb:       Blurb,
		Help:        Blurb,
		Author:      Author,
		Copyright:   Author,
		Date:        Date,
		MenuLabel:   MenuLabel,
		MenuPath:    MenuPath,
		ImageTypes:  "",
		Interpreter: p.interpreter,
		Params:      paramDefs(p.defaults),
		Run:         p.run,
	}
}

func (p *Plugin) Register(reg *procedure.Registry) error {
	return reg.Register(p.Procedure())
}

func (p *Plugin) run(ctx context.Context, call *procedure.Call) error {
	params, err := ParamsFromArgs(call.Args)
	if err != nil {
		return err
	}
	interpreter := p.interpreter
	if call.Procedure != nil && call.Procedure.Interpreter != "" {
		interpreter = call.Procedure.Interpreter
	}
	return p.Run(ctx, params, interpreter)
}

// Run detects faces in params.InputPath. The input is shown first, then the
// detector runs to completion and its output is shown. When the detector
// fails the output is not loaded.
func (p *Plugin) Run(ctx context.Context, params Params, interpreter string) error {
	if err := params.Validate(); err != nil {
		return err
	}

	p.logger.Info("FaceDetect", "Enter", map[string]interface{}{
		"input":  params.InputPath,
		"result": params.ResultPath,
		"colour": string(params.Colour),
	})

	if err := p.show(ctx, params.InputPath); err != nil {
		return fmt.Errorf("input image: %w", err)
	}

	inv := detector.Invocation{
		Interpreter: interpreter,
		Script:      params.DetectorPath,
		Args:        params.DetectorArgs(),
	}
	if err := p.runner.Run(ctx, inv); err != nil {
		return fmt.Errorf("%w: %w", ErrDetectorFailed, err)
	}

	if err := p.show(ctx, params.ResultPath); err != nil {
		return fmt.Errorf("result image: %w", err)
	}

	p.logger.Info("FaceDetect", "Exit", nil)
	return nil
}

// show loads path, opens a display for it and marks it clean so closing the
// display does not prompt about unsaved changes.
func (p *Plugin) show(ctx context.Context, path string) error {
	img, err := p.host.FileLoad(ctx, path, path)
	if err != nil {
		return err
	}
	if _, err := p.host.DisplayNew(img); err != nil {
		return err
	}
	return p.host.ImageCleanAll(img)
}

func homeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
