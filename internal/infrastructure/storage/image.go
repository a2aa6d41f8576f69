// Package storage persists uploaded images on local disk or S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// imagesPrefix is the first segment of every stored image key
const imagesPrefix = "images"

// ErrInvalidImagePath is returned for paths that were not produced by Save
var ErrInvalidImagePath = errors.New("invalid image path")

// Location says where a stored image can be read from.
// Exactly one of FilePath and URL is set.
type Location struct {
	FilePath string
	URL      string
}

// ImageStore is an appshared.ImageStore that can also locate what it stored
type ImageStore interface {
	appshared.ImageStore
	Locate(ctx context.Context, publicPath string) (Location, error)
}

// New builds the image store selected by cfg.Backend
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (ImageStore, error) {
	switch cfg.Backend {
	case config.StorageLocal, "":
		return NewLocalImageStore(cfg.LocalRoot)
	case config.StorageS3:
		store, err := NewS3ImageStore(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
}

// objectKey builds images/{folder}/{uuid}_{filename}
func objectKey(folder appshared.ImageFolder, filename string) (string, error) {
	if folder == "" || strings.ContainsAny(string(folder), `/\.`) {
		return "", fmt.Errorf("invalid image folder %q", folder)
	}
	name := sanitizeFilename(filename)
	if name == "" {
		return "", errors.New("filename is required")
	}
	return path.Join(imagesPrefix, string(folder), uuid.NewString()+"_"+name), nil
}

// sanitizeFilename keeps the base name and replaces characters that are
// awkward in URLs
func sanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, name)
}

// keyFromPublicPath reverses Save's "/"+key, rejecting anything outside images/
func keyFromPublicPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, "/") {
		return "", ErrInvalidImagePath
	}
	key := path.Clean(strings.TrimPrefix(publicPath, "/"))
	if !strings.HasPrefix(key, imagesPrefix+"/") {
		return "", ErrInvalidImagePath
	}
	return key, nil
}
