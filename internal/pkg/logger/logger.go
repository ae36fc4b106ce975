package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zeroLogger struct {
	logger zerolog.Logger
}

// New creates a console logger writing to stdout at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(level string) Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &zeroLogger{
		logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}

// Error logs an error message with the 🔴 emoji.
func (l *zeroLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg("🔴 " + msg)
}

// Warn logs a warning message with the ⚠️ emoji.
func (l *zeroLogger) Warn(msg string) {
	l.logger.Warn().Msg("⚠️ " + msg)
}

// Info logs an informational message.
func (l *zeroLogger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Debug logs a debug message.
func (l *zeroLogger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// CronAdapter adapts Logger to the cron.Logger interface
// (Info(msg, keysAndValues...) / Error(err, msg, keysAndValues...)).
type CronAdapter struct {
	log Logger
}

// CronLogger wraps log so it can be passed to cron.WithLogger.
// Routine cron chatter is logged at debug level.
func CronLogger(log Logger) *CronAdapter {
	return &CronAdapter{log: log}
}

func (c *CronAdapter) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: " + msg + formatKeysAndValues(keysAndValues))
}

func (c *CronAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error("cron: "+msg+formatKeysAndValues(keysAndValues), err)
}

func formatKeysAndValues(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			b.WriteString(fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
		} else {
			b.WriteString(fmt.Sprintf("%v", kv[i]))
		}
	}
	return b.String()
}
