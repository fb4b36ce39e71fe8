package logger

import (
	"io"
	"os"
	"prestige/config"
	"prestige/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs the global logger. Production writes JSON lines, every
// other environment gets the human readable console writer.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = New(os.Stdout, constant.ServerEnvDevelopment)
}

// New builds a logger for env writing to out.
func New(out io.Writer, env string) zerolog.Logger {
	if env != constant.ServerEnvProduction {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

// Configure applies the environment and level from config to the global logger.
func Configure(cfg *config.Config) {
	log.Logger = New(os.Stdout, cfg.Server.Env).With().Str("app", cfg.App.Name).Logger()

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// ParseLevel falls back to info for an empty or unknown level.
func ParseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(value)
	if err != nil || value == constant.Empty {
		return defaultLevel
	}

	return level
}

func SetLogLevel(cfg *config.Config) {
	level := ParseLevel(cfg.Server.LogLevel)
	zerolog.SetGlobalLevel(level)

	log.Debug().Str("loglevel", level.String()).Msg("Log level configured.")
}
