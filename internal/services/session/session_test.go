// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/Jayam07/UrbanComm/internal/config"
	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/Jayam07/UrbanComm/internal/services/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SessionSecret: "session-secret",
		SessionTTL:    168 * time.Hour,
		CookieName:    "seller_token",
		CookieSecure:  true,
	}
}

func testSeller() *models.Seller {
	return &models.Seller{ID: 42, Email: "a@x.com"}
}

func TestIssue_CookieAttributes(t *testing.T) {
	issuer := session.NewIssuer(testAuthConfig())

	tokenString, cookie, err := issuer.Issue(testSeller())

	require.NoError(t, err)
	assert.Equal(t, "seller_token", cookie.Name)
	assert.Equal(t, tokenString, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int((168 * time.Hour).Seconds()), cookie.MaxAge)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), cookie.Expires, time.Minute)
}

func TestIssueParse_RoundTrip(t *testing.T) {
	issuer := session.NewIssuer(testAuthConfig())

	tokenString, _, err := issuer.Issue(testSeller())
	require.NoError(t, err)

	claims, err := issuer.Parse(tokenString)

	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SellerID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.NotEmpty(t, claims.ID) // jti
}

func TestParse_Expired(t *testing.T) {
	past := time.Now().Add(-200 * time.Hour)
	issuer := session.NewIssuer(testAuthConfig(), session.WithClock(func() time.Time { return past }))

	tokenString, _, err := issuer.Issue(testSeller())
	require.NoError(t, err)

	verifier := session.NewIssuer(testAuthConfig())
	_, err = verifier.Parse(tokenString)

	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	issuer := session.NewIssuer(testAuthConfig())
	tokenString, _, err := issuer.Issue(testSeller())
	require.NoError(t, err)

	cfg := testAuthConfig()
	cfg.SessionSecret = "other-secret"
	other := session.NewIssuer(cfg)

	_, err = other.Parse(tokenString)

	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestRevoke_ExpiredCookie(t *testing.T) {
	issuer := session.NewIssuer(testAuthConfig())

	cookie := issuer.Revoke()

	assert.Equal(t, "seller_token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.Before(time.Now()))
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}
