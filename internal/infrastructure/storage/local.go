package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
)

// LocalFileStorage stores uploads on the local filesystem and serves
// them under a configured public base URL.
type LocalFileStorage struct {
	rootDir string
	baseURL string
}

func NewLocalFileStorage(rootDir, baseURL string) (ports.FileStorage, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalFileStorage{
		rootDir: rootDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save writes the upload and returns its public URL.
func (s *LocalFileStorage) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	cleaned, err := s.cleanName(name)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(s.rootDir, cleaned)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return "", fmt.Errorf("failed to write upload data: %w", err)
	}

	return s.baseURL + "/" + filepath.ToSlash(cleaned), nil
}

// Remove deletes a stored upload. It accepts either a storage name or
// the public URL returned by Save; missing files are not an error so
// removal stays idempotent.
func (s *LocalFileStorage) Remove(ctx context.Context, name string) error {
	name = strings.TrimPrefix(name, s.baseURL+"/")

	cleaned, err := s.cleanName(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.rootDir, cleaned)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// cleanName rejects names that would escape the storage root.
func (s *LocalFileStorage) cleanName(name string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(name, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage name: %s", name)
	}
	return cleaned, nil
}
