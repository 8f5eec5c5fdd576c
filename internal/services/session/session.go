// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package session mints and parses seller session credentials. Sessions are
// stateless signed tokens carried in a cross-site cookie; there is no
// server-side revocation list, logout only clears the cookie and the token
// rides to natural expiry.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Jayam07/UrbanComm/internal/config"
	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSession is returned for malformed or tampered session tokens.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrSessionExpired is returned when the session token is past its lifetime.
	ErrSessionExpired = errors.New("session expired")
)

// SellerClaims identifies an authenticated seller.
type SellerClaims struct {
	jwt.RegisteredClaims
	SellerID int64  `json:"sid"`
	Email    string `json:"email"`
}

// Issuer signs seller sessions and shapes the carrying cookie.
type Issuer struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// Option customizes issuer construction.
type Option func(*Issuer)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(i *Issuer) {
		if clock != nil {
			i.now = clock
		}
	}
}

// NewIssuer creates an issuer from the auth configuration.
func NewIssuer(cfg *config.AuthConfig, opts ...Option) *Issuer {
	i := &Issuer{
		secret:     []byte(cfg.SessionSecret),
		ttl:        cfg.SessionTTL,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

// CookieName returns the configured session cookie name.
func (i *Issuer) CookieName() string {
	return i.cookieName
}

// Issue mints a session token for the seller and the cookie carrying it.
// The cookie is http-only, secure, and cross-site-sendable so the storefront
// on its own origin can present it.
func (i *Issuer) Issue(seller *models.Seller) (string, *http.Cookie, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := &SellerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(seller.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SellerID: seller.ID,
		Email:    seller.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}

	cookie := &http.Cookie{
		Name:     i.cookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(i.ttl.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteNoneMode,
	}

	return signed, cookie, nil
}

// Parse verifies a session token and returns its claims.
func (i *Issuer) Parse(tokenString string) (*SellerClaims, error) {
	claims := &SellerClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}
	if !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Revoke returns an already-expired cookie that clears the client session.
func (i *Issuer) Revoke() *http.Cookie {
	return &http.Cookie{
		Name:     i.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  i.now().Add(-time.Hour),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteNoneMode,
	}
}
