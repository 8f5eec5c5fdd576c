// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func buildConfig(t *testing.T, args ...string) *Config {
	t.Helper()

	var cfg *Config
	cmd := &cli.Command{
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg = NewFromCLI(cmd)
			return nil
		},
	}

	err := cmd.Run(context.Background(), append([]string{"server"}, args...))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestNewFromCLI_Defaults(t *testing.T) {
	cfg := buildConfig(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "seller_token", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ActivationTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "./uploads", cfg.Uploads.Dir)
}

func TestNewFromCLI_BaseURLFallback(t *testing.T) {
	cfg := buildConfig(t, "--host", "localhost", "--port", "8000")

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	// Without an explicit frontend URL, activation links point at the API host.
	assert.Equal(t, cfg.Server.BaseURL, cfg.Server.FrontendURL)
}

func TestNewFromCLI_FrontendURL(t *testing.T) {
	cfg := buildConfig(t, "--frontend-url", "https://shop.example.com")

	assert.Equal(t, "https://shop.example.com", cfg.Server.FrontendURL)
}

func TestNewFromCLI_Secrets(t *testing.T) {
	cfg := buildConfig(t,
		"--activation-secret", "activation-key",
		"--session-secret", "session-key",
		"--activation-ttl", "10",
	)

	assert.Equal(t, "activation-key", cfg.Auth.ActivationSecret)
	assert.Equal(t, "session-key", cfg.Auth.SessionSecret)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ActivationTTL)
}
