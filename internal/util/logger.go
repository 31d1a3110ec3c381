package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// Logger provides leveled logging with pluggable outputs
type Logger struct {
	level   LogLevel
	outputs []Output
	mu      sync.RWMutex
}

// NewLogger creates a new logger writing to logFile, with optional console
// output for debug runs.
func NewLogger(levelStr string, logFile string, debugToConsole bool) *Logger {
	logger := &Logger{
		level:   parseLogLevel(levelStr),
		outputs: make([]Output, 0, 2),
	}

	if logFile != "" {
		if out, err := newFileOutput(logFile, FormatText); err == nil {
			logger.outputs = append(logger.outputs, out)
		}
	}
	if debugToConsole {
		logger.outputs = append(logger.outputs, newWriterOutput(os.Stderr, FormatText))
	}

	return logger
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) log(level LogLevel, levelName, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelName,
		Message:   msg,
	}
	for _, out := range l.outputs {
		out.Write(entry)
	}
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, "DEBUG", msg) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, "INFO", msg) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, "WARN", msg) }
func (l *Logger) Error(msg string) { l.log(LevelError, "ERROR", msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(fmt.Sprintf(format, args...)) }

// SetLevel updates the minimum level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes all outputs
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, out := range l.outputs {
		out.Close()
	}
	l.outputs = nil
}

// writerOutput writes formatted entries to an io.Writer
type writerOutput struct {
	writer io.Writer
	format LogFormat
	mu     sync.Mutex
}

func newWriterOutput(w io.Writer, format LogFormat) Output {
	return &writerOutput{writer: w, format: format}
}

func (o *writerOutput) Write(entry LogEntry) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var line string
	if o.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		line = string(data)
	} else {
		line = fmt.Sprintf("%s [%s] %s",
			entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	}

	_, err := fmt.Fprintln(o.writer, line)
	return err
}

func (o *writerOutput) Close() error { return nil }

// fileOutput writes entries to a log file
type fileOutput struct {
	writerOutput
	file *os.File
}

func newFileOutput(path string, format LogFormat) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &fileOutput{
		writerOutput: writerOutput{writer: f, format: format},
		file:         f,
	}, nil
}

func (o *fileOutput) Close() error {
	return o.file.Close()
}
