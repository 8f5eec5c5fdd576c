// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Jayam07/UrbanComm/internal/middleware"
	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/Jayam07/UrbanComm/internal/services/shop"
	"github.com/Jayam07/UrbanComm/internal/services/token"
	"github.com/labstack/echo/v4"
)

// CreateShop starts the seller registration flow. It stores the uploaded
// profile picture, issues an activation token for the submitted profile
// and mails the activation link. No database row is written until the
// token is redeemed via Activate.
func (h *Handlers) CreateShop(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "No Profile Pic uploaded"})
	}

	avatar, err := h.files.Save(fh)
	if err != nil {
		slog.Error("failed to store avatar", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in creating shop"})
	}

	longitude, lonErr := strconv.ParseFloat(c.FormValue("longitude"), 64)
	latitude, latErr := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if lonErr != nil || latErr != nil {
		h.files.DeleteIfExists(avatar)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the correct information"})
	}

	params := shop.RegisterParams{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		Avatar:      avatar,
		Address:     c.FormValue("address"),
		PhoneNumber: c.FormValue("phoneNumber"),
		ZipCode:     c.FormValue("zipCode"),
		Longitude:   longitude,
		Latitude:    latitude,
	}

	if err := h.shop.Register(c.Request().Context(), params); err != nil {
		switch {
		case errors.Is(err, shop.ErrSellerExists):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Seller already exists"})
		case errors.Is(err, shop.ErrMissingFields), errors.Is(err, shop.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			slog.Error("failed to register shop", "error", err, "email", params.Email)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in creating shop"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Please check your email:- " + params.Email + " to activate your Shop!",
	})
}

// ActivationRequest is the request body for redeeming an activation token.
type ActivationRequest struct {
	ActivationToken string `json:"activation_token"`
}

// Activate redeems an activation token, creates the seller account and
// logs the new seller in.
func (h *Handlers) Activate(c echo.Context) error {
	var req ActivationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid token"})
	}

	seller, err := h.shop.Activate(c.Request().Context(), req.ActivationToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired), errors.Is(err, token.ErrInvalidToken):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid token"})
		case errors.Is(err, shop.ErrSellerExists):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Seller already exists"})
		default:
			slog.Error("failed to activate seller", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in activating seller"})
		}
	}

	return h.sendSellerToken(c, http.StatusCreated, seller)
}

// LoginRequest is the request body for the seller login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a seller with email and password and sets the
// session cookie.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the all fields!"})
	}

	seller, err := h.shop.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the all fields!"})
		case errors.Is(err, shop.ErrSellerNotFound):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User doesn't exists!"})
		case errors.Is(err, shop.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the correct information"})
		default:
			slog.Error("failed to login seller", "error", err, "email", req.Email)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in logging in"})
		}
	}

	return h.sendSellerToken(c, http.StatusCreated, seller)
}

// GetSeller returns the profile of the authenticated seller.
func (h *Handlers) GetSeller(c echo.Context) error {
	seller := middleware.GetSeller(c)
	if seller == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "User doesn't exists"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"seller":  seller,
	})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Revoke())
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Log out successful!",
	})
}

// GetShopInfo returns the public profile of a shop by id.
func (h *Handlers) GetShopInfo(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Shop not found with this id"})
	}

	seller, err := h.shop.GetSeller(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, shop.ErrSellerNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Shop not found with this id"})
		}
		slog.Error("failed to load shop", "error", err, "shop_id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in loading shop"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"shop":    seller,
	})
}

// UpdateShopAvatar replaces the authenticated seller's profile picture.
// The previous picture is removed from the upload store.
func (h *Handlers) UpdateShopAvatar(c echo.Context) error {
	seller := middleware.GetSeller(c)
	if seller == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "User doesn't exists"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "No Profile Pic uploaded"})
	}

	avatar, err := h.files.Save(fh)
	if err != nil {
		slog.Error("failed to store avatar", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in updating avatar"})
	}

	updated, err := h.shop.UpdateAvatar(c.Request().Context(), seller.ID, avatar)
	if err != nil {
		h.files.DeleteIfExists(avatar)
		slog.Error("failed to update avatar", "error", err, "seller_id", seller.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in updating avatar"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"seller":  updated,
	})
}

// UpdateSellerInfoRequest is the request body for updating the shop profile.
type UpdateSellerInfoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	ZipCode     string `json:"zipCode"`
}

// UpdateSellerInfo updates the authenticated seller's shop profile.
func (h *Handlers) UpdateSellerInfo(c echo.Context) error {
	seller := middleware.GetSeller(c)
	if seller == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "User not found"})
	}

	var req UpdateSellerInfoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the all fields!"})
	}

	updated, err := h.shop.UpdateInfo(c.Request().Context(), seller.ID, shop.UpdateInfoParams{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		ZipCode:     req.ZipCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrSellerNotFound):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User not found"})
		case errors.Is(err, shop.ErrMissingFields), errors.Is(err, shop.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			slog.Error("failed to update seller info", "error", err, "seller_id", seller.ID)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in updating shop"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"shop":    updated,
	})
}

// UpdatePaymentMethodsRequest is the request body for setting the seller's
// withdraw method.
type UpdatePaymentMethodsRequest struct {
	WithdrawMethod models.JSONMap `json:"withdrawMethod"`
}

// UpdatePaymentMethods sets the authenticated seller's withdraw method.
func (h *Handlers) UpdatePaymentMethods(c echo.Context) error {
	seller := middleware.GetSeller(c)
	if seller == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Seller not found with this id"})
	}

	var req UpdatePaymentMethodsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Please provide the correct information"})
	}

	updated, err := h.shop.UpdateWithdrawMethod(c.Request().Context(), seller.ID, req.WithdrawMethod)
	if err != nil {
		slog.Error("failed to update withdraw method", "error", err, "seller_id", seller.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in updating withdraw method"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"seller":  updated,
	})
}

// DeleteWithdrawMethod removes the authenticated seller's withdraw method.
func (h *Handlers) DeleteWithdrawMethod(c echo.Context) error {
	seller := middleware.GetSeller(c)
	if seller == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Seller not found with this id"})
	}

	updated, err := h.shop.DeleteWithdrawMethod(c.Request().Context(), seller.ID)
	if err != nil {
		if errors.Is(err, shop.ErrSellerNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Seller not found with this id"})
		}
		slog.Error("failed to delete withdraw method", "error", err, "seller_id", seller.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in deleting withdraw method"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"seller":  updated,
	})
}

// sendSellerToken issues a session token for the seller, sets it as a
// cookie and writes the token alongside the seller in the response body.
func (h *Handlers) sendSellerToken(c echo.Context, statusCode int, seller *models.Seller) error {
	tokenString, cookie, err := h.sessions.Issue(seller)
	if err != nil {
		slog.Error("failed to issue session token", "error", err, "seller_id", seller.ID)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error in creating session"})
	}
	c.SetCookie(cookie)

	return c.JSON(statusCode, map[string]any{
		"success": true,
		"seller":  seller,
		"token":   tokenString,
	})
}
