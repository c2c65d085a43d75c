// Package debug is a category file logger. It is silent until enabled; the
// TUI owns the terminal, so nothing goes to stdout.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	file     *os.File
	mu       sync.Mutex
	enabled  bool
	counters = make(map[string]int)
)

// Path returns ~/.config/go-autotracker/debug.log
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "go-autotracker", "debug.log")
}

// Enable starts logging to Path(), truncating any previous run
func Enable() error {
	return EnableAt(Path())
}

// EnableAt starts logging to the given file
func EnableAt(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true
	write("debug", "=== go-autotracker debug log ===")
	return nil
}

// Disable stops logging and closes the file
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
	clear(counters)
}

// Enabled reports whether logging is on
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes one line: [HH:MM:SS.mmm] category message
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || file == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every n-th call with the same category and format.
// Use it for per-tick events.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	if !enabled {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n <= 1 || count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

// write expects mu held
func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-10s %s\n", ts, category, msg)
	file.Sync() // flush so the log survives a crash
}
