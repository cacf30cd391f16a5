// Package artifact calls the image and video synthesis backends and owns the
// video job state machine.
package artifact

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
)

const (
	DefaultPollInterval = 5 * time.Second
	maxReferences       = 2
)

type SizeTier string

const (
	Size1K SizeTier = "1K"
	Size2K SizeTier = "2K"
	Size4K SizeTier = "4K"
)

// ParseSizeTier accepts 1K, 2K or 4K; empty means 1K.
func ParseSizeTier(s string) (SizeTier, error) {
	switch SizeTier(s) {
	case "", Size1K:
		return Size1K, nil
	case Size2K, Size4K:
		return SizeTier(s), nil
	default:
		return "", fmt.Errorf("%w: size tier %q is not one of 1K, 2K, 4K", apperrors.ErrInvalidInput, s)
	}
}

// Reference is an input image with its media type.
type Reference struct {
	Data      []byte
	MediaType string
}

func ReferenceFromArtifact(a *models.GeneratedArtifact) Reference {
	return Reference{Data: a.Data, MediaType: a.MediaType}
}

func (r Reference) validate() error {
	if len(r.Data) == 0 {
		return fmt.Errorf("%w: reference image is empty", apperrors.ErrInvalidInput)
	}
	if r.MediaType == "" {
		return fmt.Errorf("%w: reference image has no media type", apperrors.ErrInvalidInput)
	}
	return nil
}

type ImageRequest struct {
	Directive   string
	References  []Reference
	SizeTier    SizeTier
	AspectRatio string
}

type VideoRequest struct {
	Seed        Reference
	Directive   string
	Count       int
	Resolution  string
	AspectRatio string
}

type Client struct {
	gemini      *gemini.Client
	sleeper     Sleeper
	interval    time.Duration
	maxAttempts int
	log         logger.Logger
}

type Option func(*Client)

func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxAttempts bounds AwaitVideo; 0 leaves it unbounded.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxAttempts = n
		}
	}
}

func New(client *gemini.Client, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		gemini:   client,
		sleeper:  TimerSleeper{},
		interval: DefaultPollInterval,
		log:      log.WithFields(map[string]interface{}{"component": "artifact"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateImage returns the first inline image of the response. A response
// without one is ErrNoArtifactProduced.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*models.GeneratedArtifact, error) {
	if len(req.References) > maxReferences {
		return nil, fmt.Errorf("%w: at most %d reference images, got %d", apperrors.ErrInvalidInput, maxReferences, len(req.References))
	}
	tier, err := ParseSizeTier(string(req.SizeTier))
	if err != nil {
		return nil, err
	}

	parts := make([]*genai.Part, 0, len(req.References)+1)
	for _, ref := range req.References {
		if err := ref.validate(); err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(ref.Data, ref.MediaType))
	}
	parts = append(parts, genai.NewPartFromText(req.Directive))

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	// 1K is the backend default and not every image model accepts a size.
	if tier != Size1K || req.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
		if tier != Size1K {
			config.ImageConfig.ImageSize = string(tier)
		}
	}

	resp, err := c.gemini.Content.GenerateContent(ctx,
		c.gemini.Model(gemini.StageImage),
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return nil, gemini.Transport("image synthesis", err)
	}

	blob := gemini.FirstInlineData(resp, "image/")
	if blob == nil {
		return nil, fmt.Errorf("%w: image response carried no inline image", apperrors.ErrNoArtifactProduced)
	}

	c.log.Debug("Image generated", map[string]interface{}{
		"media_type": blob.MIMEType,
		"bytes":      len(blob.Data),
		"references": len(req.References),
	})
	return &models.GeneratedArtifact{MediaType: blob.MIMEType, Data: blob.Data}, nil
}

// EditImage applies a directive to exactly one reference image.
func (c *Client) EditImage(ctx context.Context, ref Reference, directive string) (*models.GeneratedArtifact, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	return c.GenerateImage(ctx, ImageRequest{Directive: directive, References: []Reference{ref}})
}
