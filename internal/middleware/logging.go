// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns middleware that logs HTTP requests.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// Skip logging for static files and health checks
			path := c.Request().URL.Path
			if path == "/health" || strings.HasPrefix(path, "/uploads/") {
				return err
			}

			logger.Info("request",
				"method", c.Request().Method,
				"path", path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			)
			return err
		}
	}
}
