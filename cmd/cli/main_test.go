package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/testutil"
)

func writeData(t *testing.T) string {
	t.Helper()
	return testutil.WriteFixtures(t, map[string]string{
		"data.hcl": `
variable "system_capacity" {
  default = 4
}

configuration "PVWatts-Residential" {
  primary_modules = ["pvwattsv8", "belpe"]
  primary_inputs  = ["system_capacity"]
}
`,
	})
}

func TestRunExportBindings(t *testing.T) {
	dir := writeData(t)
	buf := &testutil.SafeBuffer{}

	err := run(buf, []string{"--export-bindings", "--log-level", "error", dir})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "config_variables_info = {")
	assert.Contains(t, out, "'PVWatts-Residential': {")
	assert.Contains(t, out, "'primary_inputs': ('system_capacity')")
}

func TestRunExportSingleConfiguration(t *testing.T) {
	dir := writeData(t)
	buf := &testutil.SafeBuffer{}

	err := run(buf, []string{"--export-bindings", "--config", "PVWatts-Residential", "--log-level", "error", dir})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "'primary_inputs': ('system_capacity')")
}

func TestRunResolveWithValuesFile(t *testing.T) {
	dir := writeData(t)
	values := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(values, []byte("system_capacity: 7.5\n"), 0o644))
	buf := &testutil.SafeBuffer{}

	err := run(buf, []string{"--config", "PVWatts-Residential", "--values", values, "--log-level", "error", "--provenance", dir})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "system_capacity = 7.5")
	assert.Contains(t, out, "'raw'")
}

func TestRunHelpExitsCleanly(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	require.NoError(t, run(buf, []string{"--help"}))
	assert.Contains(t, buf.String(), "Usage:")
}
