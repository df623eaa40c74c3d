package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/util"
)

const maxUserAgentLength = 128

func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		startTime := time.Now()
		err = c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()
		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			code = fiberError.Code
		}

		ipAddress := c.IP()

		if forwardedFor := c.Get(fiber.HeaderXForwardedFor, ""); forwardedFor != "" {
			ipAddress = forwardedFor
		}

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", ipAddress).
			Str("latency", time.Since(startTime).String()).
			Str("user-agent", util.TrimString(c.Get(fiber.HeaderUserAgent), maxUserAgentLength)).
			Logger()

		switch {
		case code >= fiber.StatusBadRequest && code < fiber.StatusInternalServerError:
			requestLogger.Warn().Msg(msg)
		case code >= http.StatusInternalServerError:
			requestLogger.Error().Msg(msg)
		default:
			requestLogger.Info().Msg(msg)
		}

		return err
	}
}
