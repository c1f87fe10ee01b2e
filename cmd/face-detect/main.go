package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/c-sanders/FaceDetect-Plugin/internal/app"
	"github.com/c-sanders/FaceDetect-Plugin/internal/batch"
	"github.com/c-sanders/FaceDetect-Plugin/internal/cli"
	"github.com/c-sanders/FaceDetect-Plugin/internal/config"
	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

func main() {
	if err := run(os.Stdout, os.Args[1:], os.Getenv); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads configuration, builds the application and starts the front end
// selected on the command line.
func run(outW io.Writer, args []string, getenv func(string) string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cfg, err := loadConfig(opts, getenv)
	if err != nil {
		return &cli.ExitError{Code: batch.ExitUsage, Message: err.Error()}
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(cfg.LogFormat, level)

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	switch {
	case opts.List:
		return batch.List(outW, application.Registry())
	case opts.Batch != "":
		err := application.RunBatch(batch.Request{
			Procedure:  opts.Batch,
			Args:       opts.Args,
			Positional: opts.Positional,
			Defaults:   opts.Defaults,
		})
		if err != nil {
			return &cli.ExitError{Code: batch.ExitCode(err), Message: err.Error()}
		}
		return nil
	default:
		return application.RunDesktop()
	}
}

// loadConfig reads the config file, then the environment, then flags, each
// overriding the previous. An explicitly named config file must exist.
func loadConfig(opts *cli.Options, getenv func(string) string) (config.Config, error) {
	path := opts.ConfigPath
	required := path != ""
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(getenv)

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.JSONLogs {
		cfg.LogFormat = config.LogFormatJSON
	}
	return cfg, cfg.Validate()
}
