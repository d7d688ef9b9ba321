package imagestore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes images under a directory served at BaseURL.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes the image and returns its URL path.
func (s *LocalStore) Save(ctx context.Context, data []byte, ext string) (string, error) {
	name := objectName(data, ext)
	fullPath := filepath.Join(s.Dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path.Join(s.BaseURL, name), nil
}
