package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	ConfigPath string
	LogLevel   string
	JSONLogs   bool

	// Batch names the procedure to run without a window. Empty starts the
	// desktop front end.
	Batch      string
	Args       map[string]string
	Positional []string
	Defaults   bool

	List bool
}

// Parse processes command-line arguments. It returns the options, whether the
// program should exit cleanly (help was printed), or an *ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("face-detect", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
face-detect - detect faces in images with an external detector script.

Usage:
  face-detect [options]
  face-detect -batch PROCEDURE [-arg name=value ...] [-- VALUE ...]

Without -batch the desktop front end starts. In batch mode arguments are
given either by name with -arg or positionally after --, in parameter order.

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &Options{Args: make(map[string]string)}
	flagSet.StringVar(&opts.ConfigPath, "config", "", "Path to the YAML config file. Defaults to the user config directory.")
	flagSet.StringVar(&opts.LogLevel, "log-level", "", "Log level: 'debug', 'info', 'warn', 'error'. Overrides config and environment.")
	flagSet.BoolVar(&opts.JSONLogs, "json-logs", false, "Write logs as JSON.")
	flagSet.StringVar(&opts.Batch, "batch", "", "Run the named procedure without a window and exit.")
	flagSet.BoolVar(&opts.Defaults, "defaults", false, "In batch mode, fill missing arguments with their defaults.")
	flagSet.BoolVar(&opts.List, "list", false, "List registered procedures and exit.")
	flagSet.Func("arg", "Procedure argument as name=value. Repeatable.", func(s string) error {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("%q is not name=value", s)
		}
		if _, dup := opts.Args[name]; dup {
			return fmt.Errorf("argument %s given twice", name)
		}
		opts.Args[name] = value
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		opts.Positional = flagSet.Args()
	}

	if opts.LogLevel != "" {
		if _, err := logger.ParseLevel(opts.LogLevel); err != nil {
			return nil, false, &ExitError{Code: 2, Message: "invalid log-level: " + err.Error()}
		}
	}

	if opts.Batch == "" {
		if len(opts.Args) > 0 || len(opts.Positional) > 0 {
			return nil, false, &ExitError{Code: 2, Message: "procedure arguments need -batch"}
		}
		if opts.Defaults {
			return nil, false, &ExitError{Code: 2, Message: "-defaults needs -batch"}
		}
	}
	if len(opts.Args) > 0 && len(opts.Positional) > 0 {
		return nil, false, &ExitError{Code: 2, Message: "give arguments either with -arg or positionally, not both"}
	}

	return opts, false, nil
}
