// Package logging provides categorized file-based debug logging for gitcoach.
// Logs are written to <statedir>/logs/ with one file per category. When debug
// mode is off, every call is a silent no-op, so lesson flow is never slowed
// by logging in normal use.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and configuration
	CategoryLesson  Category = "lesson"  // Lesson loading and step flow
	CategoryVerify  Category = "verify"  // State validation engine
	CategoryShell   Category = "shell"   // Command execution
	CategorySandbox Category = "sandbox" // Sandbox lifecycle
	CategoryStore   Category = "store"   // Progress persistence
	CategoryWatch   Category = "watch"   // Filesystem watcher
	CategoryUI      Category = "ui"      // Interactive interface
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Options controls logging behavior. Debug mode and level are passed in
// explicitly by the caller (from config) so tests can toggle them
// deterministically.
type Options struct {
	Debug bool
	Level string // debug, info, warn, error
}

// Logger wraps a standard logger with a category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	enabled   bool
	logLevel  = LevelInfo
)

// Initialize sets up the logging directory. Call once at startup with the
// state directory (e.g. ~/.gitcoach) and explicit options.
func Initialize(stateDir string, opts Options) error {
	if stateDir == "" {
		return fmt.Errorf("state directory required")
	}

	switch opts.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	if !opts.Debug {
		enabled = false
		return nil
	}

	logsDir = filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	enabled = true

	Boot("=== gitcoach logging initialized ===")
	Boot("Logs directory: %s", logsDir)
	Boot("Level: %s", opts.Level)
	return nil
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	return enabled
}

// Get returns (or creates) the logger for a category. When logging is
// disabled it returns a no-op logger.
func Get(category Category) *Logger {
	if !enabled || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation trivial.
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(logsDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file: %v\n", err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// Convenience functions. No-ops when debug mode is off.

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// Lesson logs to the lesson category.
func Lesson(format string, args ...interface{}) {
	Get(CategoryLesson).Info(format, args...)
}

// LessonDebug logs debug to the lesson category.
func LessonDebug(format string, args ...interface{}) {
	Get(CategoryLesson).Debug(format, args...)
}

// Verify logs to the verify category.
func Verify(format string, args ...interface{}) {
	Get(CategoryVerify).Info(format, args...)
}

// VerifyDebug logs debug to the verify category.
func VerifyDebug(format string, args ...interface{}) {
	Get(CategoryVerify).Debug(format, args...)
}

// VerifyWarn logs warning to the verify category.
func VerifyWarn(format string, args ...interface{}) {
	Get(CategoryVerify).Warn(format, args...)
}

// Shell logs to the shell category.
func Shell(format string, args ...interface{}) {
	Get(CategoryShell).Info(format, args...)
}

// ShellDebug logs debug to the shell category.
func ShellDebug(format string, args ...interface{}) {
	Get(CategoryShell).Debug(format, args...)
}

// ShellWarn logs warning to the shell category.
func ShellWarn(format string, args ...interface{}) {
	Get(CategoryShell).Warn(format, args...)
}

// ShellError logs error to the shell category.
func ShellError(format string, args ...interface{}) {
	Get(CategoryShell).Error(format, args...)
}

// Sandbox logs to the sandbox category.
func Sandbox(format string, args ...interface{}) {
	Get(CategorySandbox).Info(format, args...)
}

// Store logs to the store category.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category.
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// Watch logs to the watch category.
func Watch(format string, args ...interface{}) {
	Get(CategoryWatch).Info(format, args...)
}

// WatchDebug logs debug to the watch category.
func WatchDebug(format string, args ...interface{}) {
	Get(CategoryWatch).Debug(format, args...)
}

// UI logs to the ui category.
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Info(format, args...)
}

// UIDebug logs debug to the ui category.
func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}
