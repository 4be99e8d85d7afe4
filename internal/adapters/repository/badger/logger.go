package badger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Logger routes badger's printf-style logging into slog.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With("component", "badger")}
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error(message(format, args))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.logger.Warn(message(format, args))
}

func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info(message(format, args))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug(message(format, args))
}

func message(format string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
