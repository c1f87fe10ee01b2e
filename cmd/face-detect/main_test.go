package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-sanders/FaceDetect-Plugin/internal/cli"
	"github.com/c-sanders/FaceDetect-Plugin/internal/config"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-h"}, env(nil)))
	assert.Contains(t, out.String(), "-batch PROCEDURE")
}

func TestRun_List(t *testing.T) {
	path := writeConfig(t, "decoder: native\nlog_level: error\n")

	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-config", path, "-list"}, env(nil)))
	assert.Contains(t, out.String(), "runPlugin")
	assert.Contains(t, out.String(), "filename_manipulation_method")
}

func TestRun_BatchUsageError(t *testing.T) {
	path := writeConfig(t, "decoder: native\nlog_level: disabled\n")

	var out bytes.Buffer
	err := run(&out, []string{"-config", path, "-batch", "runPlugin", "--", "only-one.jpg"}, env(nil))

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-config", filepath.Join(t.TempDir(), "none.yaml"), "-list"}, env(nil))

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "interpreter: python3.9\nlog_level: warn\ndecoder: native\n")

	cfg, err := loadConfig(&cli.Options{ConfigPath: path, LogLevel: "debug", JSONLogs: true},
		env(map[string]string{"FACE_DETECT_INTERPRETER": "/usr/bin/python3", "LOG_LEVEL": "error"}))
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/python3", cfg.Interpreter)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, config.DecoderNative, cfg.Decoder)
}
