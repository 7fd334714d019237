// Package logger provides process-wide logging for fsquery.
// Debug and section output is printed only in verbose mode (--verbose);
// warnings and errors are always printed. Entries created with With carry
// key/value fields such as the query id through a request.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level identifies the severity of a log line.
type Level int

// Log levels in increasing severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the bracketed tag printed before a message.
func (l Level) String() string {
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
		return "LOG"
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func enabled(l Level) bool {
	return verbose || l >= LevelWarn
}

// write holds the exclusive lock so concurrent lines never interleave.
func write(l Level, fields string, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled(l) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if fields != "" {
		msg += " " + fields
	}
	fmt.Fprintf(output, "[%s] %s\n", l, msg)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) { write(LevelDebug, "", format, args...) }

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) { write(LevelInfo, "", format, args...) }

// Warn prints a warning.
func Warn(format string, args ...any) { write(LevelWarn, "", format, args...) }

// Error prints an error.
func Error(format string, args ...any) { write(LevelError, "", format, args...) }

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Entry is a logger bound to a fixed set of fields.
type Entry struct {
	fields map[string]any
}

// With returns an Entry carrying the given key/value pairs.
// A trailing key without a value is recorded with value "MISSING".
func With(kv ...any) *Entry {
	return (&Entry{}).With(kv...)
}

// With returns a copy of e extended with more key/value pairs.
func (e *Entry) With(kv ...any) *Entry {
	fields := make(map[string]any, len(e.fields)+len(kv)/2)
	for k, v := range e.fields {
		fields[k] = v
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = "MISSING"
		}
	}
	return &Entry{fields: fields}
}

// Debug prints a message with the entry's fields if verbose mode is enabled.
func (e *Entry) Debug(format string, args ...any) {
	write(LevelDebug, e.format(), format, args...)
}

// Info prints a message with the entry's fields if verbose mode is enabled.
func (e *Entry) Info(format string, args ...any) {
	write(LevelInfo, e.format(), format, args...)
}

// Warn prints a warning with the entry's fields.
func (e *Entry) Warn(format string, args ...any) {
	write(LevelWarn, e.format(), format, args...)
}

// Error prints an error with the entry's fields.
func (e *Entry) Error(format string, args ...any) {
	write(LevelError, e.format(), format, args...)
}

// format renders fields as sorted key=value pairs.
func (e *Entry) format() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		v := fmt.Sprint(e.fields[k])
		if strings.ContainsAny(v, " \t\"") {
			v = fmt.Sprintf("%q", v)
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String()
}
