package util

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig controls the global zerolog logger.
type LoggerConfig struct {
	Level              zerolog.Level `json:"level"`
	RequestLevel       zerolog.Level `json:"requestLevel"`
	PrettyPrintConsole bool          `json:"prettyPrintConsole"`

	// File enables a rotating log file next to console output when set.
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
	Compress   bool   `json:"compress"`
}

// ConfigureLogger sets the global level and output of zerolog. The returned
// closer flushes the rotating file, it is a no-op without one.
func ConfigureLogger(cfg LoggerConfig) io.Closer {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)

	var console io.Writer = os.Stderr
	if cfg.PrettyPrintConsole {
		console = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		})
	}

	if cfg.File == "" {
		log.Logger = log.Output(console)
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.Logger = log.Output(zerolog.MultiLevelWriter(console, file))

	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
