// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package middleware provides Echo middleware for authentication and
// request logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/Jayam07/UrbanComm/internal/services/session"
	"github.com/labstack/echo/v4"
)

// sellerKey is the context key under which the authenticated seller is
// stored on the Echo context.
const sellerKey = "seller"

// SellerLoader is an interface for loading full seller data.
type SellerLoader interface {
	GetSellerByID(ctx context.Context, id int64) (*models.Seller, error)
}

// RequireSeller creates middleware that authenticates the request via the
// seller token cookie and loads the seller into the Echo context.
// Unauthenticated requests get a 401 response.
func RequireSeller(sessions *session.Issuer, loader SellerLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessions.CookieName())
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please login to continue"})
			}

			claims, err := sessions.Parse(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please login to continue"})
			}

			seller, err := loader.GetSellerByID(c.Request().Context(), claims.SellerID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please login to continue"})
			}

			c.Set(sellerKey, seller)
			return next(c)
		}
	}
}

// GetSeller returns the authenticated seller from the Echo context, or nil
// if the request did not pass RequireSeller.
func GetSeller(c echo.Context) *models.Seller {
	seller, ok := c.Get(sellerKey).(*models.Seller)
	if !ok {
		return nil
	}
	return seller
}
