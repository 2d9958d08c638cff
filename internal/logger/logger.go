package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// These constants are the string representation of the log levels
const (
	// DebugLevel defines debug log level
	DebugLevel = "debug"
	// InfoLevel defines info log level
	InfoLevel = "info"
	// WarnLevel defines warn log level
	WarnLevel = "warn"
	// ErrorLevel defines error log level
	ErrorLevel = "error"
	// FatalLevel defines fatal log level
	FatalLevel = "fatal"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Config holds the configuration for the logger
type Config struct {
	Level  string
	Output string // "stdout", "stderr", or file path
	Pretty bool   // Enable pretty logging for development
}

// Init initializes the global logger
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		level, parseErr := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if parseErr != nil {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var output io.Writer
		switch cfg.Output {
		case "stdout", "":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			dir := filepath.Dir(cfg.Output)
			if dir != "." && dir != string(filepath.Separator) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
					output = os.Stdout
					break
				}
			}

			file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
				output = os.Stdout
				break
			}
			output = file
		}

		if cfg.Pretty {
			logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: "2006-01-02 15:04:05",
			})
		} else {
			logger = zerolog.New(output)
		}

		logger = logger.With().
			Timestamp().
			Caller().
			Logger()

		zerolog.DefaultContextLogger = &logger
	})
	return err
}

// Get returns the logger instance
func Get() *zerolog.Logger {
	return &logger
}

// Helper functions for different log levels
func Debug() *zerolog.Event {
	return logger.Debug().Caller(1)
}

func Info() *zerolog.Event {
	return logger.Info().Caller(1)
}

func Warn() *zerolog.Event {
	return logger.Warn().Caller(1)
}

func Error() *zerolog.Event {
	return logger.Error().Caller(1)
}

// WithError adds an error to the log context
func WithError(err error) *zerolog.Event {
	return logger.Error().Err(err)
}
