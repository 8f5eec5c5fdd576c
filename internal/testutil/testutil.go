// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/Jayam07/UrbanComm/internal/database"
	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/Jayam07/UrbanComm/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestSeller creates an activated seller with the given email and the
// password "correct horse battery".
func NewTestSeller(t *testing.T, repo *repository.Repository, email string) *models.Seller {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.DefaultCost)
	require.NoError(t, err)

	seller := &models.Seller{
		Name:         "Test Shop",
		Email:        email,
		PasswordHash: string(hash),
		Address:      "123 Market Street",
		PhoneNumber:  "+14155552671",
		ZipCode:      "94103",
		Longitude:    -122.4194,
		Latitude:     37.7749,
	}
	require.NoError(t, repo.CreateSeller(context.Background(), seller))
	return seller
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// MultipartBody builds a multipart form with the given fields and a single
// file part. Returns the encoded body and its content type.
func MultipartBody(t *testing.T, fields map[string]string, fileField, filename string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
