// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package middleware

import (
	"github.com/Jayam07/UrbanComm/internal/i18n"
	"github.com/labstack/echo/v4"
)

// Locale creates middleware that detects the preferred language from the
// Accept-Language header and sets it in the request context. Activation
// mail triggered by the request is localized with it.
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			lang := i18n.MatchLanguage(req.Header.Get("Accept-Language"))
			ctx := i18n.WithLocale(req.Context(), lang)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
