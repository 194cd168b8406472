package logx

import (
	"io"
	"os"

	"github.com/mkebiclioglu/agent-as-inbound-rep/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	Debug       bool             `envconfig:"LOG_DEBUG" default:"false"`
}

var DefaultConfig = &Config{
	Environment: core.Development,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)

	if conf.Environment.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	if conf.Debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}
}

// Discard silences the global logger; tests call it to keep output clean.
func Discard() {
	log.Logger = zerolog.New(io.Discard)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Panic() *zerolog.Event {
	return log.Panic()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
