// Package logging wraps a process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init replaces the global logger according to cfg.
func Init(cfg Config) {
	InitWithWriter(cfg, os.Stderr)
}

func InitWithWriter(cfg Config, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := w
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	zctx := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		zctx = zctx.Caller()
	}
	SetLogger(zctx.Logger())
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func SetLogger(l zerolog.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }
