package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"server/internal/domain"
)

// FileStore persists audio artifacts onto the local filesystem. It is
// intended for development and test environments where an object storage
// service is not available.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Put persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory
// traversal. An existing object at the key is never overwritten.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("storage: key %q: %w", cleanKey, domain.ErrObjectExists)
		}
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	return cleanKey, nil
}

// Get reads the object stored at key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(cleanKey)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage: key %q: %w", cleanKey, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// Delete removes the object stored at key. Deleting a missing key is not an
// error so compensation paths stay idempotent.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(cleanKey))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
