package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	appshared "github.com/shop/storefront/internal/application/shared"
)

// LocalImageStore writes images below a public static root
type LocalImageStore struct {
	root string
}

// NewLocalImageStore creates the store, creating root if needed
func NewLocalImageStore(root string) (*LocalImageStore, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalImageStore{root: abs}, nil
}

// Root returns the absolute static root
func (s *LocalImageStore) Root() string {
	return s.root
}

// Save writes content under root/images/{folder}
func (s *LocalImageStore) Save(_ context.Context, folder appshared.ImageFolder, filename string, content io.Reader) (string, error) {
	key, err := objectKey(folder, filename)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image folder: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/" + key, nil
}

// Delete removes the file. A missing file is not an error.
func (s *LocalImageStore) Delete(_ context.Context, publicPath string) error {
	key, err := keyFromPublicPath(publicPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Locate returns the file backing publicPath
func (s *LocalImageStore) Locate(_ context.Context, publicPath string) (Location, error) {
	key, err := keyFromPublicPath(publicPath)
	if err != nil {
		return Location{}, err
	}
	return Location{FilePath: filepath.Join(s.root, filepath.FromSlash(key))}, nil
}

var _ ImageStore = (*LocalImageStore)(nil)
