// Package testutil provides a harness for end-to-end tests that run the
// application against HCL files written to a temporary directory.
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
	"github.com/vk/strokegraph/internal/app"
	"github.com/vk/strokegraph/internal/hcl"
	"github.com/vk/strokegraph/internal/registry"
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

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Options tunes a harness run. The zero value renders text with the
// compiled-in modules.
type Options struct {
	Format    string
	Overrides []app.Override
	// Modules replaces the compiled-in module list when non-empty.
	Modules []registry.Module
}

// RunPipeline writes files (paths relative to a temporary root, e.g.
// "grid/main.hcl" or "modules/extra.hcl"), starts the app with grid/ as the
// pipeline and modules/ as the manifest path, and runs it.
func RunPipeline(t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	gridDir := filepath.Join(root, "grid")
	modulesDir := filepath.Join(root, "modules")
	require.NoError(t, os.Mkdir(gridDir, 0o755))
	require.NoError(t, os.Mkdir(modulesDir, 0o755))

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	format := opts.Format
	if format == "" {
		format = "text"
	}
	appConfig, err := app.NewConfig(app.Config{
		GridPath:    gridDir,
		ModulesPath: modulesDir,
		LogLevel:    "debug",
		LogFormat:   "text",
		Format:      format,
		Overrides:   opts.Overrides,
	})
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("STROKEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, logs, appConfig, hcl.NewLoader(), opts.Modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(context.Background(), appConfig)
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}
