package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
)

// ContentGenerator is the text, image and multimodal generation surface.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// VideoGenerator starts long-running video jobs.
type VideoGenerator interface {
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
}

// OperationPoller refreshes a video job.
type OperationPoller interface {
	GetVideosOperation(ctx context.Context, operation *genai.GenerateVideosOperation, config *genai.GetOperationConfig) (*genai.GenerateVideosOperation, error)
}

type Config struct {
	APIKey     string
	Profile    string
	Overrides  map[string]string
	HTTPClient *http.Client
}

// Client is the process-wide credentialed handle. It is built once at
// startup and never mutated, so it is shared by pointer across goroutines.
type Client struct {
	Content      ContentGenerator
	Videos       VideoGenerator
	Operations   OperationPoller
	capabilities Capabilities
	apiKey       string
}

// New builds the handle on the Gemini API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	caps, err := ResolveCapabilities(cfg.Profile, cfg.Overrides)
	if err != nil {
		return nil, err
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{
		Content:      sdk.Models,
		Videos:       sdk.Models,
		Operations:   sdk.Operations,
		capabilities: caps,
		apiKey:       cfg.APIKey,
	}, nil
}

// NewWithBackends assembles a handle from explicit backends.
func NewWithBackends(apiKey string, caps Capabilities, content ContentGenerator, videos VideoGenerator, ops OperationPoller) *Client {
	return &Client{
		Content:      content,
		Videos:       videos,
		Operations:   ops,
		capabilities: caps,
		apiKey:       apiKey,
	}
}

// Model returns the model identifier configured for a stage.
func (c *Client) Model(stage Stage) string {
	return c.capabilities.Model(stage)
}

func (c *Client) Capabilities() Capabilities {
	return c.capabilities
}

// AuthorizeLocator appends the API credential as the key query parameter.
// The returned value must never be logged.
func (c *Client) AuthorizeLocator(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: result locator is not a remote url", apperrors.ErrVideoGenerationFailed)
	}
	if c.apiKey == "" {
		return locator, nil
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Transport wraps a backend failure so it classifies as TRANSPORT_ERROR
// while keeping context errors inspectable.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrTransport, op, err)
}
