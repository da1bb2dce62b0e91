package logger

import (
	"guestroom/config"
	"guestroom/shared/constant"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human readable console logger. SetLogLevel replaces it with JSON
// output in production.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. An empty level means info, an unknown one trace.
func SetLogLevel(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.App.Name).Logger()
	}

	if cfg.Server.LogLevel == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)

		return
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Warn().Str("loglevel", cfg.Server.LogLevel).Msg("Unknown log level, using trace.")
	}

	zerolog.SetGlobalLevel(level)
}
