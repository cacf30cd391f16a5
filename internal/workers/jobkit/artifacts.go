package jobkit

import (
	"context"
	"fmt"
	"strings"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/models"
)

// Downloader fetches remote artifacts.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// StoreLocator stores an inline locator and returns its key.
func StoreLocator(ctx context.Context, store ArtifactStore, locator string) (string, error) {
	art, err := models.ParseLocator(locator)
	if err != nil {
		return "", err
	}
	return store.Put(ctx, art)
}

// LoadLocator turns a stored artifact back into an inline locator.
func LoadLocator(ctx context.Context, store ArtifactStore, key string) (string, error) {
	art, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return art.Locator(), nil
}

// Materialize returns the bytes behind locator, downloading remote results.
// fallbackType is used when the remote side sends no content type.
func Materialize(ctx context.Context, d Downloader, locator, fallbackType string) (*models.GeneratedArtifact, error) {
	if strings.HasPrefix(locator, "data:") {
		return models.ParseLocator(locator)
	}

	data, mediaType, err := d.Download(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: downloaded artifact is empty", apperrors.ErrNoArtifactProduced)
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = fallbackType
	}
	return &models.GeneratedArtifact{MediaType: mediaType, Data: data}, nil
}
