// Package debuglog is the application's leveled file logger. Output goes to
// a file only; the terminal belongs to the TUI.
package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	clog "github.com/charmbracelet/log"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) charm() clog.Level {
	switch l {
	case LevelDebug:
		return clog.DebugLevel
	case LevelWarn:
		return clog.WarnLevel
	case LevelError:
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown input yields INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	logger       *clog.Logger
	logFile      *os.File
)

// Setup configures the logging system with the specified level and optional
// file path. If filePath is empty, the log goes to the xdg state directory.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	closeLocked()

	if level == LevelOff {
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	} else {
		p, err := xdg.StateFile(filepath.Join("skim", "skim.log"))
		if err != nil {
			return fmt.Errorf("failed to resolve log path: %w", err)
		}
		logPath = p
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = clog.NewWithOptions(f, clog.Options{
		Level:           level.charm(),
		Prefix:          "skim",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Formatter:       clog.LogfmtFormatter,
	})
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	if logger != nil && level != LevelOff {
		logger.SetLevel(level.charm())
	}
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	logger = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func logf(level LogLevel, keyvals []any, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil || currentLevel == LevelOff || level < currentLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelDebug:
		logger.Debug(msg, keyvals...)
	case LevelInfo:
		logger.Info(msg, keyvals...)
	case LevelWarn:
		logger.Warn(msg, keyvals...)
	default:
		logger.Error(msg, keyvals...)
	}
}

func Debugf(format string, args ...any) { logf(LevelDebug, nil, format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, nil, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, nil, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, nil, format, args...) }

// FieldLogger attaches key/value pairs to every message it writes.
type FieldLogger struct {
	keyvals []any
}

// WithFields returns a logger carrying fields. Keys are emitted in sorted
// order so lines are stable.
func WithFields(fields map[string]any) *FieldLogger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &FieldLogger{keyvals: kv}
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	logf(LevelDebug, fl.keyvals, format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	logf(LevelInfo, fl.keyvals, format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	logf(LevelWarn, fl.keyvals, format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	logf(LevelError, fl.keyvals, format, args...)
}
