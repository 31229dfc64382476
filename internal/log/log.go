package log

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"estatehub/internal/config"
)

// Configure installs the global zerolog logger. It must run before anything logs.
func Configure(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if cfg.DevMode {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
		level = zerolog.TraceLevel
	}

	writers := []io.Writer{out}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			writers = append(writers, f)
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(level)
}

func event(e *zerolog.Event, c *fiber.Ctx, action string, fields map[string]any) {
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("request_id", rid)
		}
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Str("action", action).Send()
}

// Info records a routine read-side event.
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	event(log.Info(), c, action, fields)
}

// Audit records a successful state change.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	event(log.Info().Bool("audit", true), c, action, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	event(log.Warn(), c, action, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	event(log.Error().Stack().Err(err), c, action, fields)
}

// Middleware writes one access line per request once the handler chain returns.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler set the final status before logging
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		e := log.Info()
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			e = log.Error()
		}
		event(e.Str("component", "httpreq").
			Int("status", c.Response().StatusCode()).
			Int("size", len(c.Response().Body())).
			Dur("duration", time.Since(start)), c, "http.request", nil)
		return nil
	}
}
