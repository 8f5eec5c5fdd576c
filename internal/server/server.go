// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package server wires configuration, storage and HTTP routing together
// and runs the API server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jayam07/UrbanComm/internal/config"
	"github.com/Jayam07/UrbanComm/internal/database"
	"github.com/Jayam07/UrbanComm/internal/handlers"
	"github.com/Jayam07/UrbanComm/internal/i18n"
	"github.com/Jayam07/UrbanComm/internal/middleware"
	"github.com/Jayam07/UrbanComm/internal/repository"
	"github.com/Jayam07/UrbanComm/internal/services/email"
	"github.com/Jayam07/UrbanComm/internal/services/session"
	"github.com/Jayam07/UrbanComm/internal/services/shop"
	"github.com/Jayam07/UrbanComm/internal/services/token"
	"github.com/Jayam07/UrbanComm/internal/uploads"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	if cfg.Auth.ActivationSecret == "" || cfg.Auth.SessionSecret == "" {
		return errors.New("activation-secret and session-secret must be set")
	}

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Uploads
	files, err := uploads.NewStore(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("failed to open upload store: %w", err)
	}

	// Services
	repo := repository.New(db)
	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.FrontendURL)
	if err != nil {
		return fmt.Errorf("failed to init mailer: %w", err)
	}
	codec := token.NewCodec(cfg.Auth.ActivationSecret, cfg.Auth.ActivationTTL)
	sessions := session.NewIssuer(&cfg.Auth)
	shopSvc := shop.NewService(repo, codec, mailer, files)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, shopSvc, sessions, repo, files)

	return startWithGracefulShutdown(ctx, e, cfg)
}

func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
	e.Use(middleware.Locale())
	e.Use(middleware.RequestLogger(slog.Default()))
}

func setupRoutes(e *echo.Echo, shopSvc *shop.Service, sessions *session.Issuer, repo *repository.Repository, files *uploads.Store) {
	h := handlers.New(shopSvc, sessions, files)
	auth := middleware.RequireSeller(sessions, repo)

	// Uploaded avatars are served directly
	e.Static("/uploads", files.Dir())

	e.GET("/health", h.Health)

	g := e.Group("/api/v2/shop")
	g.POST("/create-shop", h.CreateShop)
	g.POST("/activation", h.Activate)
	g.POST("/login-shop", h.Login)
	g.GET("/getSeller", h.GetSeller, auth)
	g.GET("/logout", h.Logout)
	g.GET("/get-shop-info/:id", h.GetShopInfo)
	g.PUT("/update-shop-avatar", h.UpdateShopAvatar, auth)
	g.PUT("/update-seller-info", h.UpdateSellerInfo, auth)
	g.PUT("/update-payment-methods", h.UpdatePaymentMethods, auth)
	g.DELETE("/delete-withdraw-method", h.DeleteWithdrawMethod, auth)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
