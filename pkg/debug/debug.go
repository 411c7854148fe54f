// Package debug provides conditional debug logging for mq.
//
// Debug logging is enabled by setting the MQ_DEBUG environment variable:
//
//	MQ_DEBUG=1 mq --data movies.jsonl
//
// When enabled, messages are written to stderr with timestamps. When disabled
// (default), every function here returns immediately.
//
// Usage:
//
//	import "github.com/vanderheijden86/marquee/pkg/debug"
//
//	func (d *Dashboard) ToggleGenre(g string) error {
//	    defer debug.LogEnterExit("ToggleGenre")()
//	    debug.Log("genre %q toggled", g)
//	}
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const prefix = "[MQ_DEBUG] "

var (
	enabled atomic.Bool

	mu     sync.Mutex
	logger *log.Logger
)

func init() {
	if os.Getenv("MQ_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
	mu.Unlock()
	enabled.Store(e)
}

// SetOutput redirects debug output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, prefix, 0)
}

func printf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	printf("%s took %v", name, d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond || !Enabled() {
		return
	}
	printf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("Compute")()
func LogEnterExit(name string) func() {
	if !Enabled() {
		return func() {}
	}
	printf("-> %s", name)
	start := time.Now()
	return func() {
		printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !Enabled() {
		return
	}
	printf("%s: %T = %+v", name, v, v)
}
