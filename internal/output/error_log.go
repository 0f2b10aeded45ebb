package output

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxLogSizeMB is the error log size that triggers rotation
	DefaultMaxLogSizeMB = 10
	// DefaultMaxLogFiles is the number of rotated error logs kept
	DefaultMaxLogFiles = 5
)

// ErrorLogger appends terminal and unexpected errors to a file, rotating it
// once it grows past maxSize. Rotated files are named <path>.1 … <path>.N.
type ErrorLogger struct {
	logPath  string
	mu       sync.Mutex
	maxSize  int64
	maxFiles int
}

// NewErrorLogger creates a new ErrorLogger. Non-positive limits fall back to
// the defaults.
func NewErrorLogger(logPath string, maxSizeMB, maxFiles int) *ErrorLogger {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxLogSizeMB
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxLogFiles
	}
	return &ErrorLogger{
		logPath:  logPath,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxFiles: maxFiles,
	}
}

// LogError writes an entry with timestamp, type, message, cause and the
// caller's stack.
func (e *ErrorLogger) LogError(errorType, errorMessage string, originalErr error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rotateIfNeeded(); err != nil {
		return fmt.Errorf("failed to rotate log: %w", err)
	}

	f, err := os.OpenFile(e.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open error log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var entry strings.Builder
	fmt.Fprintf(&entry, "[%s] ERROR: %s\n", time.Now().Format("2006-01-02 15:04:05"), errorMessage)
	fmt.Fprintf(&entry, "Type: %s\n", errorType)
	if originalErr != nil {
		fmt.Fprintf(&entry, "Details: %s\n", originalErr.Error())
	}
	entry.WriteString("Stack Trace:\n")
	entry.WriteString(stackTrace(3))
	entry.WriteString("\n")

	if _, err := f.WriteString(entry.String()); err != nil {
		return fmt.Errorf("failed to write to error log: %w", err)
	}
	return nil
}

// rotateIfNeeded shifts <path>.i to <path>.i+1, dropping the oldest, once the
// current file reaches maxSize. Must be called with mu held.
func (e *ErrorLogger) rotateIfNeeded() error {
	info, err := os.Stat(e.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	if info.Size() < e.maxSize {
		return nil
	}

	oldest := fmt.Sprintf("%s.%d", e.logPath, e.maxFiles)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove oldest log: %w", err)
	}
	for i := e.maxFiles - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", e.logPath, i)
		to := fmt.Sprintf("%s.%d", e.logPath, i+1)
		if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log %s to %s: %w", from, to, err)
		}
	}
	if err := os.Rename(e.logPath, e.logPath+".1"); err != nil {
		return fmt.Errorf("failed to rotate current log: %w", err)
	}
	return nil
}

// stackTrace renders the stack above skip frames
func stackTrace(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var trace strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&trace, "  at %s (%s:%d)\n", frame.Function, filepath.Base(frame.File), frame.Line)
		if !more {
			break
		}
	}
	return trace.String()
}

// EnsureLogDirectory creates the log directory if it doesn't exist
func EnsureLogDirectory(logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}
