package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("flags populate the config", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{
			"--data", "testdata",
			"--config", "Biopower-LCOE Calculator",
			"--values", "values.yaml",
			"--provenance",
			"--log-level", "debug",
		}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "testdata", cfg.DataPath)
		assert.Equal(t, "Biopower-LCOE Calculator", cfg.ConfigName)
		assert.Equal(t, "values.yaml", cfg.ValuesPath)
		assert.True(t, cfg.ShowProvenance)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("positional data path", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"--export-bindings", "testdata"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "testdata", cfg.DataPath)
		assert.True(t, cfg.ExportBindings)
	})

	t.Run("no data path prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		_, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("config name required for resolving", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--data", "testdata"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--data", "d", "--config", "c", "--log-format", "xml"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--data", "d", "--config", "c", "--log-level", "loud"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "log-level")
	})
}
