package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tylerdata/taxiPipeline/config"
)

func TestNewRootCommand(t *testing.T) {
	rootCmd := newRootCommand(&bytes.Buffer{})

	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "history")

	runCmd, _, err := rootCmd.Find([]string{"run"})
	if assert.Nil(t, err) {
		assert.NotNil(t, runCmd.Flags().Lookup(FlagRegisterPartition))
		assert.NotNil(t, runCmd.Flags().Lookup(FlagDryRun))
	}
}

func TestRunWithMissingConfigFile(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd := newRootCommand(out)
	rootCmd.SetArgs([]string{
		"run",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
	})

	err := rootCmd.Execute()
	var exitErr *exitError
	if assert.True(t, errors.As(err, &exitErr)) {
		assert.Equal(t, ExitCodeInvalidConfig, exitErr.code)
	}
	assert.True(t, errors.Is(err, config.ErrConfigFileMissing))
	assert.True(t, strings.Contains(out.String(), "invalid configuration"))
}

func TestNewLogger(t *testing.T) {
	out := &bytes.Buffer{}
	logger := newLogger(out, config.LogConfig{Level: "warn", Format: config.LogFormatJSON})
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)

	out.Reset()
	logger = newLogger(out, config.LogConfig{Level: "info", Format: config.LogFormatText})
	logger.Info("text line")
	assert.Contains(t, out.String(), "msg=\"text line\"")
}
