package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin wrapper over slog that carries an "action" attribute
// the way every service in this repo logs its steps.
type Logger struct {
	l *slog.Logger
}

// New returns a JSON logger writing to stdout at the given level
// (DEBUG, INFO, WARN or ERROR).
func New(level string) (Logger, error) {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) (Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return Logger{}, err
	}

	hostname, _ := os.Hostname()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return Logger{l: slog.New(h).With("hostname", hostname)}, nil
}

// Nop discards everything. Used by tests.
func Nop() Logger {
	return Logger{l: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

func (l Logger) Action(action string) Logger {
	return l.With("action", action)
}

func (l Logger) With(args ...any) Logger {
	return Logger{l: l.logger().With(args...)}
}

func (l Logger) WithGroup(name string) Logger {
	return Logger{l: l.logger().WithGroup(name)}
}

func (l Logger) Debug(msg string, args ...any) {
	l.logger().Debug(msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.logger().Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.logger().Warn(msg, args...)
}

func (l Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logger().Error(msg, args...)
}

// zero value Logger is usable
func (l Logger) logger() *slog.Logger {
	if l.l == nil {
		return slog.Default()
	}
	return l.l
}
