// Package logger provides leveled logging for comani.
// A Logger is created once per run and passed to every manager and plug-in
// that reports progress. Messages carry an origin (the reporting component),
// a message, an optional description and a message type.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level controls which message types are printed.
type Level int

// Log levels, matching the values of the core.log_level setting.
const (
	// LevelSilent prints nothing.
	LevelSilent Level = iota

	// LevelStandard prints info, warning and error messages.
	LevelStandard

	// LevelDebug additionally prints debug messages.
	LevelDebug
)

// ParseLevel converts a configured log level to a Level.
func ParseLevel(v int) (Level, bool) {
	if v < int(LevelSilent) || v > int(LevelDebug) {
		return LevelStandard, false
	}
	return Level(v), true
}

// MessageType is the severity of a single message.
type MessageType int

// Message types.
const (
	TypeInfo MessageType = iota
	TypeWarning
	TypeError
	TypeDebug
)

// String returns the tag printed in front of a message.
func (t MessageType) String() string {
	switch t {
	case TypeInfo:
		return "INFO"
	case TypeWarning:
		return "WARNING"
	case TypeError:
		return "ERROR"
	case TypeDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

var tagStyles = map[MessageType]lipgloss.Style{
	TypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	TypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	TypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	TypeDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

// Logger writes leveled messages to an output writer.
// It is safe for concurrent use. A nil *Logger discards everything.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	output io.Writer
	styled bool
}

// New creates a logger writing to w at the given level.
// If w is nil, os.Stderr is used.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: level, output: w}
}

// Discard returns a logger that prints nothing. Useful for testing.
func Discard() *Logger {
	return New(io.Discard, LevelSilent)
}

// SetLevel changes the log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current log level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetStyled enables coloured message tags. Only enable it for terminals.
func (l *Logger) SetStyled(styled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.styled = styled
}

// Enabled reports whether messages of type t are printed.
func (l *Logger) Enabled(t MessageType) bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled(t)
}

// enabled checks the level (caller must hold lock).
func (l *Logger) enabled(t MessageType) bool {
	switch l.level {
	case LevelSilent:
		return false
	case LevelStandard:
		return t != TypeDebug
	default:
		return true
	}
}

// Log prints a message from origin. The description is printed on its own
// indented line and may be empty.
func (l *Logger) Log(origin, message, description string, t MessageType) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled(t) {
		return
	}

	tag := "[" + t.String() + "]"
	if l.styled {
		tag = tagStyles[t].Render(tag)
	}
	fmt.Fprintf(l.output, "%s [%s] %s\n", tag, origin, message)
	if description != "" {
		fmt.Fprintf(l.output, "        %s\n", description)
	}
}

// Debug prints a formatted debug message.
func (l *Logger) Debug(origin, format string, args ...any) {
	l.Log(origin, fmt.Sprintf(format, args...), "", TypeDebug)
}

// Info prints a formatted informational message.
func (l *Logger) Info(origin, format string, args ...any) {
	l.Log(origin, fmt.Sprintf(format, args...), "", TypeInfo)
}

// Warn prints a formatted warning.
func (l *Logger) Warn(origin, format string, args ...any) {
	l.Log(origin, fmt.Sprintf(format, args...), "", TypeWarning)
}

// Error prints a formatted error message.
func (l *Logger) Error(origin, format string, args ...any) {
	l.Log(origin, fmt.Sprintf(format, args...), "", TypeError)
}

// Section prints a section header unless the logger is silent.
func (l *Logger) Section(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == LevelSilent {
		return
	}
	fmt.Fprintf(l.output, "\n=== %s ===\n", name)
}
