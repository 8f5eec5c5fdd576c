// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package uploads_test

import (
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jayam07/UrbanComm/internal/testutil"
	"github.com/Jayam07/UrbanComm/internal/uploads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := testutil.MultipartBody(t, nil, "file", filename, content)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestSave(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	filename, err := store.Save(fileHeader(t, "avatar.png", []byte("png-bytes")))

	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(filename))
	assert.True(t, store.Exists(filename))

	data, err := os.ReadFile(store.Path(filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSave_UniqueNames(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(fileHeader(t, "avatar.png", []byte("a")))
	require.NoError(t, err)
	second, err := store.Save(fileHeader(t, "avatar.png", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDeleteIfExists(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	filename, err := store.Save(fileHeader(t, "avatar.png", []byte("x")))
	require.NoError(t, err)

	store.DeleteIfExists(filename)

	assert.False(t, store.Exists(filename))
}

func TestDeleteIfExists_MissingFile(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	// Must not panic or escalate.
	store.DeleteIfExists("never-stored.png")
	store.DeleteIfExists("")
}

func TestPath_FlattensTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := uploads.NewStore(dir)
	require.NoError(t, err)

	path := store.Path("../../etc/passwd")

	assert.Equal(t, filepath.Join(dir, "passwd"), path)
}
