// Package logx wraps zerolog with the process-wide logger and a couple of
// key/value helpers.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Development mode logs at debug level
// through a console writer, otherwise JSON at info level.
func Init(development bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if development {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

func Logger() *zerolog.Logger {
	return &log.Logger
}

// fields drops an odd-length key/value list instead of letting zerolog panic.
func fields(kv []any) []any {
	if len(kv)%2 != 0 {
		Logger().Warn().Int("fields_count", len(kv)).Msg("odd number of log fields ignored")
		return nil
	}
	return kv
}

func Debug(msg string, kv ...any) {
	Logger().Debug().Fields(fields(kv)).CallerSkipFrame(1).Msg(msg)
}

func Info(msg string, kv ...any) {
	Logger().Info().Fields(fields(kv)).CallerSkipFrame(1).Msg(msg)
}

func Warn(msg string, kv ...any) {
	Logger().Warn().Fields(fields(kv)).CallerSkipFrame(1).Msg(msg)
}

func Error(err error, msg string, kv ...any) {
	Logger().Error().Err(err).Fields(fields(kv)).CallerSkipFrame(1).Msg(msg)
}
