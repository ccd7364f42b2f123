package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/evogrid/internal/app"
	"github.com/vk/evogrid/internal/controller"
	"github.com/vk/evogrid/internal/module"
	"github.com/vk/evogrid/internal/registry"
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

// NewController returns a seeded controller with the given populations
// (name to size) and modules added, but not yet set up.
func NewController(t *testing.T, pops map[string]int, mods ...module.Module) *controller.Controller {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("EVOGRID_TEST_LOGS") == "true" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	c := controller.New(controller.WithSeed(1), controller.WithLogger(logger))

	names := make([]string, 0, len(pops))
	for name := range pops {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, err := c.AddPopulation(name, pops[name])
		require.NoError(t, err)
	}
	for _, m := range mods {
		require.NoError(t, c.AddModule(m))
	}
	t.Cleanup(c.Close)
	return c
}

// HarnessResult holds the outcomes of a scripted run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunScript writes files into a temporary directory and runs them through
// the application with the given plugins. When cfg.Files is empty every
// written file is loaded.
func RunScript(t *testing.T, files map[string]string, cfg app.Config, plugins ...registry.Plugin) *HarnessResult {
	t.Helper()
	return RunScriptWithContext(context.Background(), t, files, cfg, plugins...)
}

// RunScriptWithContext is RunScript with a caller supplied context.
func RunScriptWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, plugins ...registry.Plugin) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	var written []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		written = append(written, path)
	}
	sort.Strings(written)

	if len(cfg.Files) == 0 {
		cfg.Files = written
	} else {
		for i, f := range cfg.Files {
			if !filepath.IsAbs(f) {
				cfg.Files[i] = filepath.Join(dir, f)
			}
		}
	}
	if cfg.Generate != "" && !filepath.IsAbs(cfg.Generate) {
		cfg.Generate = filepath.Join(dir, cfg.Generate)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	a := app.NewApp(out, logs, &cfg, plugins...)
	err := a.Run(ctx)

	t.Cleanup(func() {
		if os.Getenv("EVOGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &HarnessResult{Output: out.String(), LogOutput: logs.String(), Err: err, App: a}
}
