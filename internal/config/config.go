// Package config loads the host settings from an optional YAML file and
// applies environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

const (
	AppDirName       = "face-detect"
	ConfigFileName   = "config.yaml"
	DefaultInterp    = "python3"
	DecoderNative    = "native"
	DecoderOpenCV    = "opencv"
	DecoderAuto      = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Config struct {
	Interpreter     string        `yaml:"interpreter"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	Decoder         string        `yaml:"decoder"`
	Manifests       []string      `yaml:"manifests"`
	DetectorTimeout time.Duration `yaml:"detector_timeout"`
}

func Default() Config {
	return Config{
		Interpreter: DefaultInterp,
		LogLevel:    "info",
		LogFormat:   LogFormatConsole,
		Decoder:     DecoderAuto,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/face-detect/config.yaml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName, ConfigFileName), nil
}

// Load reads the YAML file at path over the defaults. A missing file is only
// an error when required is set, so the default location can be absent.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("FACE_DETECT_INTERPRETER"); v != "" {
		c.Interpreter = v
	}
	if v := getenv("FACE_DETECT_DECODER"); v != "" {
		c.Decoder = strings.ToLower(v)
	}
	if v := getenv("FACE_DETECT_MANIFESTS"); v != "" {
		c.Manifests = filepath.SplitList(v)
	}
	if getenv("FACE_DETECT_JSON_LOGS") == "true" {
		c.LogFormat = LogFormatJSON
	}

	switch v := getenv("LOG_LEVEL"); {
	case v != "":
		c.LogLevel = v
	case getenv("DEBUG") == "1":
		c.LogLevel = "debug"
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Interpreter) == "" {
		return errors.New("interpreter must not be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	switch c.Decoder {
	case DecoderNative, DecoderOpenCV, DecoderAuto:
	default:
		return fmt.Errorf("unknown decoder %q", c.Decoder)
	}
	if c.DetectorTimeout < 0 {
		return fmt.Errorf("detector_timeout must not be negative, got %s", c.DetectorTimeout)
	}
	return nil
}
