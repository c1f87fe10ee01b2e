// Package batch runs a single procedure without a window, the way a host
// runs plugins from scripts.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitProcedureError = 1
	ExitUsage          = 2
)

var ErrUsage = errors.New("usage error")

// Request names the procedure and its arguments. Args and Positional are
// mutually exclusive. Without Defaults every parameter must be given.
type Request struct {
	Procedure  string
	Args       map[string]string
	Positional []string
	Defaults   bool
}

func (r Request) mode() procedure.RunMode {
	if r.Defaults {
		return procedure.Interactive
	}
	return procedure.NonInteractive
}

type Runner struct {
	registry *procedure.Registry
	logger   logger.Logger
}

func New(reg *procedure.Registry, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{registry: reg, logger: log}
}

// Run executes req and returns the procedure's error, if any.
func (r *Runner) Run(ctx context.Context, req Request) error {
	if req.Procedure == "" {
		return fmt.Errorf("%w: no procedure given", ErrUsage)
	}
	if len(req.Args) > 0 && len(req.Positional) > 0 {
		return fmt.Errorf("%w: named and positional arguments cannot be mixed", ErrUsage)
	}

	r.logger.Info("Batch", "running procedure", map[string]interface{}{
		"procedure": req.Procedure,
		"mode":      req.mode().String(),
	})

	var err error
	if len(req.Positional) > 0 {
		err = r.registry.RunPositional(ctx, req.Procedure, req.mode(), req.Positional)
	} else {
		err = r.registry.Run(ctx, req.Procedure, req.mode(), req.Args)
	}
	if err != nil {
		r.logger.Error("Batch", err, map[string]interface{}{
			"procedure": req.Procedure,
			"exit_code": ExitCode(err),
		})
		return err
	}

	r.logger.Info("Batch", "procedure finished", map[string]interface{}{
		"procedure": req.Procedure,
	})
	return nil
}

// ExitCode maps a Run error to the process exit status. Errors in how the
// procedure was called are usage errors; anything raised by the procedure
// itself is a procedure error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage),
		errors.Is(err, procedure.ErrNotFound),
		errors.Is(err, procedure.ErrCalledWithoutArgs),
		errors.Is(err, procedure.ErrInvalidArgument):
		return ExitUsage
	default:
		return ExitProcedureError
	}
}

// List writes every registered procedure with its parameters.
func List(w io.Writer, reg *procedure.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range reg.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.MenuPath+p.MenuLabel, p.Blurb)
		for i, def := range p.Params {
			fmt.Fprintf(tw, "  %d. %s\t%s\t%s\n", i+1, def.Name, describeType(def), def.Default)
		}
	}
	return tw.Flush()
}

func describeType(def procedure.ParamDef) string {
	if def.Type != procedure.Radio {
		return def.Type.String()
	}
	values := make([]string, len(def.Options))
	for i, opt := range def.Options {
		values[i] = opt.Value
	}
	return "radio(" + strings.Join(values, "|") + ")"
}
