package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
)

// Path returns the log file for the given day.
func Path(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("news-%s.log", day.Format("2006-01-02")))
}

// Init opens today's log file under dir and installs the global logger.
// The TUI owns the terminal, so nothing is written to stderr.
func Init(dir string, level log.Level, version string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(Path(dir, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logger, logFile = l, f
	mu.Unlock()

	l.Info("news started", "version", version)
	return nil
}

// Close flushes the shutdown line and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		logger.Info("news shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = nil
}

// Logger returns the global logger, or one that discards everything before
// Init.
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

// WithPrefix returns a component logger.
func WithPrefix(prefix string) *log.Logger {
	return Logger().WithPrefix(prefix)
}

func Info(msg string, keyvals ...interface{}) {
	Logger().Info(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	Logger().Debug(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Logger().Error(msg, keyvals...)
}
