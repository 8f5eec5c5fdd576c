// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"github.com/Jayam07/UrbanComm/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	err := i18n.Init()
	require.NoError(t, err)
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.T(ctx, "activation_email_subject")
	assert.Equal(t, "Activate your Shop", result)
}

func TestT_German(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)

	result := i18n.T(ctx, "activation_email_subject")
	assert.Equal(t, "Aktiviere deinen Shop", result)
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	// Unknown messages come back as the key itself
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	// Without WithLocale the English catalog answers
	result := i18n.T(context.Background(), "activation_email_subject")
	assert.Equal(t, "Activate your Shop", result)
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)

	result := i18n.TData(ctx, "activation_email_body", map[string]any{
		"Name":          "Shop A",
		"ActivationURL": "https://shop.example.com/seller/activation/abc",
	})
	assert.Contains(t, result, "Hallo Shop A")
	assert.Contains(t, result, "https://shop.example.com/seller/activation/abc")
}

func TestMatchLanguage(t *testing.T) {
	base := func(acceptLanguage string) string {
		b, _ := i18n.MatchLanguage(acceptLanguage).Base()
		return b.String()
	}

	assert.Equal(t, "de", base("de-DE,de;q=0.9"))
	assert.Equal(t, "en", base("en-US,en;q=0.9"))
	// Unsupported languages fall back to the default
	assert.Equal(t, "en", base("fr-FR"))
	assert.Equal(t, "en", base(""))
}

func TestGetLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)
	assert.Equal(t, "de", i18n.GetLocale(ctx))

	assert.Equal(t, "en", i18n.GetLocale(context.Background()))
}
