// Package logger provides structured logging for ntpwire
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quartzlab/ntpwire/internal/config"
)

// LogLevel represents log severity
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
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
	default:
		return "UNKNOWN"
	}
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	LevelStr  string                 `json:"level_str"`
	Category  string                 `json:"category"`
	Message   string                 `json:"message"`
	Server    string                 `json:"server,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger is the main logger instance
type Logger struct {
	mu          sync.RWMutex
	entries     []LogEntry
	maxEntries  int
	level       LogLevel
	fileHandle  *os.File
	subscribers []chan LogEntry
}

// Global logger instance
var globalLogger *Logger
var once sync.Once

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	once.Do(func() {
		globalLogger = &Logger{
			entries:    make([]LogEntry, 0),
			maxEntries: 1000,
			level:      LevelInfo,
		}
	})
	return globalLogger
}

// Initialize sets up the logger with config
func (l *Logger) Initialize(cfg *config.Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxEntries = cfg.Logging.MaxLogEntries
	l.level = ParseLevel(cfg.Logging.Level)

	if cfg.Logging.LogToFile {
		dataDir, err := config.EnsureDataDir()
		if err != nil {
			return err
		}
		logPath := filepath.Join(dataDir, config.LogFileName)
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.fileHandle = f
	}

	return nil
}

// Close closes the logger
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileHandle != nil {
		l.fileHandle.Close()
		l.fileHandle = nil
	}
	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil
}

// Subscribe returns a channel that receives new log entries
func (l *Logger) Subscribe() chan LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan LogEntry, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription channel
func (l *Logger) Unsubscribe(ch chan LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, sub := range l.subscribers {
		if sub == ch {
			l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
			break
		}
	}
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, category, message string, extra map[string]interface{}) {
	if level < l.level {
		return
	}
	l.emit(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		LevelStr:  level.String(),
		Category:  category,
		Message:   message,
		Extra:     extra,
	})
}

func (l *Logger) emit(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[1:]
	}

	if l.fileHandle != nil {
		jsonLine, _ := json.Marshal(entry)
		l.fileHandle.Write(append(jsonLine, '\n'))
	}

	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
			// Channel full, skip
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(category, message string) {
	l.log(LevelDebug, category, message, nil)
}

// Info logs an info message
func (l *Logger) Info(category, message string) {
	l.log(LevelInfo, category, message, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(category, message string) {
	l.log(LevelWarn, category, message, nil)
}

// Error logs an error message
func (l *Logger) Error(category, message string) {
	l.log(LevelError, category, message, nil)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(category, format string, args ...interface{}) {
	l.Debug(category, fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message
func (l *Logger) Infof(category, format string, args ...interface{}) {
	l.Info(category, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(category, format string, args ...interface{}) {
	l.Warn(category, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(category, format string, args ...interface{}) {
	l.Error(category, fmt.Sprintf(format, args...))
}

// LogQuery logs the outcome of a single server query
func (l *Logger) LogQuery(server string, success bool, rtt time.Duration, detail string) {
	level := LevelInfo
	status := "ok"
	if !success {
		level = LevelWarn
		status = "failed"
	}
	if level < l.level {
		return
	}
	l.emit(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		LevelStr:  level.String(),
		Category:  "QUERY",
		Message:   fmt.Sprintf("Query to %s: %s (RTT: %v) %s", server, status, rtt, detail),
		Server:    server,
		Extra: map[string]interface{}{
			"success": success,
			"rtt_ms":  rtt.Milliseconds(),
		},
	})
}

// GetEntries returns the most recent count log entries
func (l *Logger) GetEntries(count int) []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if count <= 0 || count > len(l.entries) {
		count = len(l.entries)
	}
	result := make([]LogEntry, count)
	copy(result, l.entries[len(l.entries)-count:])
	return result
}

// ClearEntries clears all in-memory log entries
func (l *Logger) ClearEntries() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]LogEntry, 0)
}

// ParseLevel parses a string log level
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// FormatEntry formats a log entry for display
func FormatEntry(entry LogEntry) string {
	timestamp := entry.Timestamp.Format("15:04:05")
	return fmt.Sprintf("%s [%s] [%s] %s",
		timestamp, entry.LevelStr, entry.Category, entry.Message)
}
