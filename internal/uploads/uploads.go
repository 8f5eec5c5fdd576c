// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package uploads stores avatar files and cleans up the ones a failed or
// superseded registration leaves behind.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store manages files inside a single upload directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute location of a stored file. The filename is
// flattened to its base so a crafted name cannot escape the directory.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Save copies a multipart part into the store under a unique name and
// returns the stored filename.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	filename := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(s.Path(filename))
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(s.Path(filename))
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(s.Path(filename))
		return "", fmt.Errorf("closing file: %w", err)
	}

	return filename, nil
}

// DeleteIfExists removes a stored file, best effort. A missing file is fine,
// anything else is logged rather than escalated so cleanup never turns a
// rejection into a 500.
func (s *Store) DeleteIfExists(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(s.Path(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to delete upload", "file", filename, "error", err)
	}
}

// Exists reports whether a stored file is present on disk.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(s.Path(filename))
	return err == nil
}
