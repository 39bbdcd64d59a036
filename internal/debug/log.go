// Package debug is an optional file log for diagnostics that should not
// reach the terminal. Records are written by a log/slog text handler at
// debug level, tagged with a category attribute.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	logger   *slog.Logger
	file     *os.File
	mu       sync.Mutex
	enabled  bool
	counters = make(map[string]int)
)

// DefaultPath is ~/.config/ledpanel/debug.log.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ledpanel", "debug.log")
}

// Enable starts logging to path, truncating it. An empty path uses
// DefaultPath.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	file, logger, enabled = f, newLogger(f), true
	write("debug", "debug logging started")
	return nil
}

// EnableWriter logs to w instead of a file.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger, enabled = newLogger(w), true
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
	counters = make(map[string]int)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every nth call with the same category and format.
func LogEvery(n int, category, format string, args ...any) {
	if n <= 0 {
		n = 1
	}
	mu.Lock()
	if !enabled {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

// write must be called with mu held.
func write(category, msg string) {
	logger.LogAttrs(context.Background(), slog.LevelDebug, msg, slog.String("category", category))
	if file != nil {
		file.Sync()
	}
}
