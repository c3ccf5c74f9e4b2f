// Package testutil provides the shared harness for integration-style
// tests: temp-dir HCL fixtures, a thread-safe log buffer, and an
// end-to-end resolve runner.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/app"
	"github.com/vk/varflow/internal/evaluator"
	"github.com/vk/varflow/internal/hcladapter"
	"github.com/vk/varflow/internal/registry"
	"github.com/vk/varflow/internal/varvalue"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFixtures writes the given files into a fresh temp dir and returns
// its path.
func WriteFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Callables is a ready-made registry.Module mapping declared invocation
// names to test implementations.
type Callables struct {
	Equations map[string]registry.Callable
	Modules   map[string]registry.Callable
}

// Register implements registry.Module.
func (c *Callables) Register(r *registry.Registry) {
	for name, fn := range c.Equations {
		r.RegisterEquation(name, fn)
	}
	for name, fn := range c.Modules {
		r.RegisterModule(name, fn)
	}
}

// HarnessResult holds the outcomes of one end-to-end resolve run.
type HarnessResult struct {
	LogOutput string
	App       *app.App
	Primary   map[string]varvalue.Value
	Trace     *evaluator.Trace
	Err       error
}

// RunResolve loads the fixture files, builds the app with the given
// callables, and resolves one configuration. Startup panics are captured
// into Err so malformed-data tests stay ordinary assertions.
func RunResolve(t *testing.T, files map[string]string, configName string, raw map[string]varvalue.Value, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := WriteFixtures(t, files)
	buf := &SafeBuffer{}
	result := &HarnessResult{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("startup: %v", r)
			}
		}()
		cfg, err := app.NewConfig(app.Config{
			DataPath:   dir,
			ConfigName: configName,
			LogFormat:  "text",
			LogLevel:   "debug",
		})
		require.NoError(t, err)
		result.App = app.NewApp(buf, cfg, hcladapter.NewLoader(), modules...)
	}()
	if result.Err != nil {
		result.LogOutput = buf.String()
		return result
	}

	result.Primary, result.Trace, result.Err = result.App.Resolve(context.Background(), configName, raw)
	result.LogOutput = buf.String()
	return result
}
