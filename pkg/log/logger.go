package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

type Fields map[string]interface{}

// New builds the service logger. Local runs get a console writer at debug level,
// everything else writes JSON at info level.
func New(env string) Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) Logger {
	switch env {
	case "local":
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case "test":
		return zerolog.Nop()
	default:
		return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
}

func With(logger Logger, fields Fields) Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
