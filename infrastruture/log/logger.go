// Package logger provides a leveled, colored logger for the service components.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
)

const (
	levelInfoColor    = "\033[32m"
	levelWarningColor = "\033[33m"
	levelErrorColor   = "\033[31m"
	colorReset        = "\033[0m"
)

var (
	ErrEmptyPrefix = errors.New("logger prefix must not be empty")
	ErrNilWriter   = errors.New("logger writer must not be nil")
)

// Logger writes "[PREFIX] [LEVEL] message" lines. The prefix is drawn in its
// component color, the level in a fixed color per level.
type Logger struct {
	prefix string
	color  string
	out    *log.Logger
}

// New creates a Logger for one component.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if w == nil {
		return nil, ErrNilWriter
	}

	return &Logger{
		prefix: prefix,
		color:  color,
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.write(levelInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.write(levelWarningColor, "WARNING", msg)
}

// Error logs a failed operation.
func (l *Logger) Error(msg string) {
	l.write(levelErrorColor, "ERROR", msg)
}

func (l *Logger) write(levelColor, level, msg string) {
	l.out.Print(fmt.Sprintf("%s[%s]%s %s[%s]%s %s", l.color, l.prefix, colorReset, levelColor, level, colorReset, msg))
}
