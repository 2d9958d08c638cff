package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/khabarhub/newsdesk/internal/logger"
)

// LoggerConfig defines the config for the logger middleware
type LoggerConfig struct {
	// Skip defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Logger is the zerolog logger instance to use.
	// If not provided, the default logger will be used.
	Logger *zerolog.Logger
}

// NewLogger creates a new middleware handler
func NewLogger(config ...LoggerConfig) fiber.Handler {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		event := cfg.Logger.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("request")

		return err
	}
}

// RequestLogger returns the logger middleware with defaults.
func RequestLogger() fiber.Handler {
	return NewLogger()
}
