package condition

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Fields carries structured key/value context attached to a log entry.
type Fields map[string]any

type loggerWithFields interface {
	WithFields(Fields) Logger
}

// Logger is the logging collaborator accepted by Parse and by Processor
// (WithLogger). It is never required: both fall back to a no-op
// implementation when none is given. The lexer, exporter, and
// normalization pipeline take no Logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// LoggerEnabled gates output of the default stdout logger returned by
// NewLogger. It has no effect on caller-supplied Logger implementations.
var LoggerEnabled = false

// NewLogger returns the package's default Logger, a leveled stdout writer
// gated by LoggerEnabled.
func NewLogger() Logger {
	return &defaultLogger{}
}

// NewNoopLogger returns a Logger that discards everything. Components use
// it internally when constructed without an explicit Logger.
func NewNoopLogger() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)       {}
func (noopLogger) Info(string, ...any)        {}
func (noopLogger) Error(string, ...any)       {}
func (noopLogger) WithFields(Fields) Logger   { return noopLogger{} }

type defaultLogger struct {
	fields Fields
}

func (d *defaultLogger) Debug(format string, args ...any) {
	d.log("DEBUG", format, args...)
}

func (d *defaultLogger) Info(format string, args ...any) {
	d.log("INFO", format, args...)
}

func (d *defaultLogger) Error(format string, args ...any) {
	d.log("ERROR", format, args...)
}

func (d *defaultLogger) WithFields(fields Fields) Logger {
	if len(fields) == 0 {
		return d
	}

	merged := make(Fields, len(d.fields)+len(fields))
	maps.Copy(merged, d.fields)
	maps.Copy(merged, fields)

	return &defaultLogger{fields: merged}
}

func (d *defaultLogger) log(level string, format string, args ...any) {
	if !LoggerEnabled {
		return
	}

	message := fmt.Sprintf(format, args...)
	if len(d.fields) == 0 {
		fmt.Printf("[%s] %s\n", level, message)
		return
	}

	fmt.Printf("[%s] %s %s\n", level, message, d.formatFields())
}

func (d *defaultLogger) formatFields() string {
	if len(d.fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, d.fields[key]))
	}

	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
