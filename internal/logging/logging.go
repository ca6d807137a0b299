package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags and config are
// parsed, so early failures still produce readable output.
func InitDefault() {
	log.Logger = log.Output(consoleWriter(false))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger from viper. A nil writer means
// stderr.
func Init(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(viper.GetString(LevelKey))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	switch viper.GetString(FormatKey) {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		cw := consoleWriter(viper.GetBool(NoColorKey))
		cw.Out = w
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
	}
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}
