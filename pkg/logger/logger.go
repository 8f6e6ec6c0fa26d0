// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main, then Get wherever a logger is needed. Levels,
// lowest first: trace, debug, info, warn, error.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is the minimum level; unknown values fall back to info.
	Level string
	// Pretty switches to the coloured console writer for local development.
	Pretty bool
	// Service is attached to every line as "service".
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// OptionsFor derives logger options from the runtime environment: pretty
// output everywhere except production.
func OptionsFor(env, level string) Options {
	return Options{
		Level:   level,
		Pretty:  !strings.EqualFold(env, "production"),
		Service: "kosalla-console",
	}
}

var (
	mu       sync.RWMutex
	instance *zerolog.Logger
)

// Init builds the singleton. Later calls return the existing logger.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	l := ctx.Logger()
	instance = &l
	return l
}

// Get returns the singleton. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Reset drops the singleton. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
