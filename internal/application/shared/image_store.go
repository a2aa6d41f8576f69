package shared

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// ImageFolder is the public sub-directory an uploaded image is filed under
type ImageFolder string

const (
	FolderCategories ImageFolder = "categories"
	FolderNews       ImageFolder = "news"
	FolderProducts   ImageFolder = "products"
	FolderSliders    ImageFolder = "sliders"
)

// ImageStore persists uploaded images and serves them from a public path
type ImageStore interface {
	// Save writes content as images/{folder}/{randomId}_{filename} and
	// returns the public path, which starts with "/".
	Save(ctx context.Context, folder ImageFolder, filename string, content io.Reader) (string, error)

	// Delete removes the image behind a public path returned by Save
	Delete(ctx context.Context, publicPath string) error
}

// ImageUpload is an image received with a create or edit request
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// DiscardImage deletes an image that is no longer referenced.
// Failures are logged and swallowed: the owning change has already been saved.
func DiscardImage(ctx context.Context, store ImageStore, logger *zap.Logger, publicPath string) {
	if publicPath == "" {
		return
	}
	if err := store.Delete(ctx, publicPath); err != nil {
		logger.Warn("failed to delete image",
			zap.String("path", publicPath),
			zap.Error(err),
		)
	}
}
