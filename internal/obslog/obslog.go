// Package obslog provides the ambient, phase-tagged logging used across the
// compiler and runtime. The teacher has no structured logger of its own —
// cmd/ailang's main.go reports status with fmt.Printf and
// color.New(...).SprintFunc() directly — so this package keeps that idiom
// rather than introducing an unused third-party logger, generalized into a
// small reusable helper instead of copy-pasted color.New calls.
package obslog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger writes phase-tagged, leveled lines to a sink (stderr by default).
// Every call states which worker/cache-key/module it concerns; bare
// messages are discouraged by the Tag parameter being required.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool

	infoFn  func(...interface{}) string
	warnFn  func(...interface{}) string
	errFn   func(...interface{}) string
	traceFn func(...interface{}) string
}

// New creates a Logger writing to os.Stderr.
func New(verbose bool) *Logger {
	return &Logger{
		out:     os.Stderr,
		verbose: verbose,
		infoFn:  color.New(color.FgGreen).SprintFunc(),
		warnFn:  color.New(color.FgYellow).SprintFunc(),
		errFn:   color.New(color.FgRed, color.Bold).SprintFunc(),
		traceFn: color.New(color.FgCyan).SprintFunc(),
	}
}

func (l *Logger) line(level, tag, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	return fmt.Sprintf("[%s] %-5s %s: %s", time.Now().Format("15:04:05.000"), level, tag, msg)
}

// Info logs an informational line tagged with the component it concerns
// (e.g. "cache", "worker-3", "module math").
func (l *Logger) Info(tag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.infoFn(l.line("INFO", tag, format, args...)))
}

// Warn logs a warning line.
func (l *Logger) Warn(tag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.warnFn(l.line("WARN", tag, format, args...)))
}

// Error logs an error line.
func (l *Logger) Error(tag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.errFn(l.line("ERROR", tag, format, args...)))
}

// Trace logs a line only when verbose mode is enabled (driven by --debug /
// OTTER_DEBUG or the scheduler-specific OTTER_TASKS_TRACE flag).
func (l *Logger) Trace(tag, format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, l.traceFn(l.line("TRACE", tag, format, args...)))
}

// SetVerbose toggles Trace output at runtime (e.g. when OTTER_TASKS_DEBUG is
// read after construction).
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}
