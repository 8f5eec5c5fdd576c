// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package handlers contains all HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/Jayam07/UrbanComm/internal/services/session"
	"github.com/Jayam07/UrbanComm/internal/services/shop"
	"github.com/Jayam07/UrbanComm/internal/uploads"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	shop     *shop.Service
	sessions *session.Issuer
	files    *uploads.Store
}

// New creates a new Handlers instance.
func New(svc *shop.Service, sessions *session.Issuer, files *uploads.Store) *Handlers {
	return &Handlers{
		shop:     svc,
		sessions: sessions,
		files:    files,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
