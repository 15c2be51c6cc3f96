package logger

import (
	"encoding/json"
	"io"
	"log"
	"maps"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// Logger represents a configurable logger instance
type Logger struct {
	level  Level
	logger *log.Logger
}

// LogEntry represents a structured log entry
type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a new logger writing JSON lines to output (stdout when nil)
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	return &Logger{
		level:  parseLevel(level),
		logger: log.New(output, "", 0),
	}
}

// parseLevel converts string to Level. FATAL maps to ERROR.
func parseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR", "FATAL":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) writeLogEntry(level Level, message string, fields map[string]any) {
	if l.level > level {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     getLevelName(level),
		Message:   message,
		Fields:    fields,
	}

	if data, err := json.Marshal(entry); err == nil {
		l.logger.Println(string(data))
	} else {
		// Fallback to simple format if JSON fails
		l.logger.Printf("[%s] %s", entry.Level, message)
	}
}

func getLevelName(level Level) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func firstFields(fields []map[string]any) map[string]any {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Core logging methods - always structured
func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.writeLogEntry(DEBUG, message, firstFields(fields))
}

func (l *Logger) Info(message string, fields ...map[string]any) {
	l.writeLogEntry(INFO, message, firstFields(fields))
}

func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.writeLogEntry(WARN, message, firstFields(fields))
}

func (l *Logger) Error(message string, fields ...map[string]any) {
	l.writeLogEntry(ERROR, message, firstFields(fields))
}

// Task logs a task lifecycle event at INFO, tagged with the task id.
func (l *Logger) Task(taskID int, message string, fields ...map[string]any) {
	allFields := map[string]any{
		"task_id": taskID,
		"type":    "task",
	}

	if f := firstFields(fields); f != nil {
		maps.Copy(allFields, f)
	}

	l.writeLogEntry(INFO, message, allFields)
}

func (l *Logger) HTTP(method, path string, statusCode int, duration time.Duration, fields ...map[string]any) {
	allFields := map[string]any{
		"http_method": method,
		"http_path":   path,
		"http_status": statusCode,
		"duration_ns": duration.Nanoseconds(),
		"type":        "http_request",
	}

	if f := firstFields(fields); f != nil {
		maps.Copy(allFields, f)
	}

	l.writeLogEntry(INFO, "HTTP request completed", allFields)
}
