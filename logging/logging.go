// Package logging provides leveled console output for the resumerag service.
// Lines are human-readable: LEVEL TIMESTAMP [component] message key=value ...
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger writes structured lines to an io.Writer.
type Logger struct {
	mu        *sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
	traceID   string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a config string to a Level. Unknown values give INFO.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelPriority[l]; ok {
		return l
	}
	return LevelInfo
}

// New creates a new Logger writing to stdout at INFO.
func New() *Logger {
	return &Logger{
		mu:       &sync.Mutex{},
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	l := New()
	l.output = io.Discard
	return l
}

// WithComponent returns a new logger with the given component name.
// The child shares the parent's writer lock.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		mu:        l.mu,
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
		traceID:   l.traceID,
	}
}

// WithTraceID returns a new logger that stamps every line with trace=<id>.
func (l *Logger) WithTraceID(traceID string) *Logger {
	return &Logger{
		mu:        l.mu,
		output:    l.output,
		minLevel:  l.minLevel,
		component: l.component,
		traceID:   traceID,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs, sorted by key.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return " " + strings.Join(parts, " ")
}

func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}
	if l.traceID != "" {
		fieldStr += " trace=" + l.traceID
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Domain events ---

// BatchStart logs the start of an ingestion batch.
func (l *Logger) BatchStart(batchID string, files int) {
	l.Info("batch_start", map[string]interface{}{
		"batch": batchID,
		"files": files,
	})
}

// FileIndexed logs a file that made it into the store.
func (l *Logger) FileIndexed(filename string, position, chars int) {
	l.Debug("file_indexed", map[string]interface{}{
		"file":     filename,
		"position": position,
		"chars":    chars,
	})
}

// FileFailed logs a per-file ingestion failure. The batch carries on.
func (l *Logger) FileFailed(filename string, err error) {
	l.Warn("file_failed", map[string]interface{}{
		"file":  filename,
		"error": err.Error(),
	})
}

// BatchComplete logs the outcome of an ingestion batch.
func (l *Logger) BatchComplete(batchID string, succeeded, failed int, duration time.Duration) {
	l.Info("batch_complete", map[string]interface{}{
		"batch":     batchID,
		"succeeded": succeeded,
		"failed":    failed,
		"duration":  duration.String(),
	})
}

// QueryComplete logs a finished similarity query.
func (l *Logger) QueryComplete(topK, returned int, duration time.Duration) {
	l.Info("query_complete", map[string]interface{}{
		"top_k":    topK,
		"returned": returned,
		"duration": duration.String(),
	})
}

// QueryFailed logs a query that could not be answered.
func (l *Logger) QueryFailed(err error) {
	l.Error("query_failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// Request logs one HTTP request.
func (l *Logger) Request(method, path string, status int, latency time.Duration) {
	fields := map[string]interface{}{
		"method":  method,
		"path":    path,
		"status":  status,
		"latency": latency.String(),
	}
	if status >= 500 {
		l.Error("request", fields)
		return
	}
	l.Info("request", fields)
}
