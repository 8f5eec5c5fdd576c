// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package token implements the activation token codec. A pending seller's
// profile lives only inside the signed token: issuing one costs a signature
// instead of a pending-registration row, and an unconsumed token simply
// expires.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed or tampered tokens.
	ErrInvalidToken = errors.New("invalid activation token")
	// ErrTokenExpired is returned when the token is past its lifetime.
	ErrTokenExpired = errors.New("activation token expired")
)

// PendingSeller is the profile submitted at registration. It is serialized
// into the activation token and never persisted on its own.
type PendingSeller struct { //nolint:govet // fieldalignment: readability over optimization
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Avatar      string  `json:"avatar"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phoneNumber"`
	ZipCode     string  `json:"zipCode"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
}

type activationClaims struct {
	PendingSeller
	jwt.RegisteredClaims
}

// Codec signs and verifies activation tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes codec construction.
type Option func(*Codec)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(c *Codec) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewCodec creates a codec for the given secret and token lifetime.
func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Issue signs the pending seller with the activation secret. No side effects.
func (c *Codec) Issue(pending PendingSeller) (string, error) {
	issuedAt := c.now()
	claims := &activationClaims{
		PendingSeller: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pending.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the decoded profile.
func (c *Codec) Verify(tokenString string) (*PendingSeller, error) {
	claims := &activationClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	pending := claims.PendingSeller
	return &pending, nil
}
