package models

import (
	"encoding/base64"
	"fmt"
	"strings"

	apperrors "costume-studio/internal/common/errors"
)

const dataScheme = "data:"

// GeneratedArtifact is a generated image or video. Inline payloads carry
// Data; remote results carry URI.
type GeneratedArtifact struct {
	MediaType string `json:"mediaType"`
	Data      []byte `json:"-"`
	URI       string `json:"-"`
}

// Locator returns the opaque handle callers use: a base64 data URI for
// inline payloads, otherwise the remote URI.
func (a *GeneratedArtifact) Locator() string {
	if a == nil {
		return ""
	}
	if len(a.Data) > 0 {
		return dataScheme + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
	}
	return a.URI
}

// Size is the inline payload length in bytes.
func (a *GeneratedArtifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// ParseLocator decodes a base64 data URI back into an inline artifact.
// Remote locators are rejected; they must be fetched first.
func ParseLocator(locator string) (*GeneratedArtifact, error) {
	if !strings.HasPrefix(locator, dataScheme) {
		return nil, fmt.Errorf("%w: locator is not an inline data handle", apperrors.ErrInvalidInput)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(locator, dataScheme), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data handle", apperrors.ErrInvalidInput)
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("%w: data handle must be base64 encoded", apperrors.ErrInvalidInput)
	}
	if mediaType == "" {
		return nil, fmt.Errorf("%w: data handle has no media type", apperrors.ErrInvalidInput)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode data handle: %v", apperrors.ErrInvalidInput, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data handle is empty", apperrors.ErrInvalidInput)
	}
	return &GeneratedArtifact{MediaType: mediaType, Data: data}, nil
}
