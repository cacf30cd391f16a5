// Package grounding fetches real-world conditions for a filming location
// through a search-grounded generation call.
package grounding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/studio/prompt"
)

type Gatherer struct {
	client *gemini.Client
	log    logger.Logger
}

func New(client *gemini.Client, log logger.Logger) *Gatherer {
	return &Gatherer{
		client: client,
		log:    log.WithFields(map[string]interface{}{"component": "grounding"}),
	}
}

// Lookup issues one search-grounded query. Every failure is reported as
// ErrGroundingUnavailable.
func (g *Gatherer) Lookup(ctx context.Context, location string) (models.GroundingContext, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return models.GroundingContext{}, fmt.Errorf("%w: no location", apperrors.ErrGroundingUnavailable)
	}

	resp, err := g.client.Content.GenerateContent(ctx,
		g.client.Model(gemini.StageGrounding),
		[]*genai.Content{genai.NewContentFromText(prompt.GroundingQuestion(location), genai.RoleUser)},
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		},
	)
	if err != nil {
		return models.GroundingContext{}, fmt.Errorf("%w: %w", apperrors.ErrGroundingUnavailable, gemini.Transport("grounding query", err))
	}

	summary := gemini.ResponseText(resp)
	if summary == "" {
		return models.GroundingContext{}, fmt.Errorf("%w: empty answer", apperrors.ErrGroundingUnavailable)
	}

	result := models.DefaultGroundingContext(location)
	result.Summary = summary
	result.Sources = gemini.GroundingSources(resp)
	result.Live = true
	return result, nil
}

// Gather never fails: when the lookup does, it returns the default context.
func (g *Gatherer) Gather(ctx context.Context, location string) models.GroundingContext {
	result, err := g.Lookup(ctx, location)
	if err != nil {
		g.log.Warn("Grounding unavailable, using default conditions", map[string]interface{}{
			"location":   location,
			"error_code": string(apperrors.ErrCodeGroundingUnavailable),
			"error":      err.Error(),
		})
		return models.DefaultGroundingContext(location)
	}

	g.log.Debug("Grounding resolved", map[string]interface{}{
		"location": location,
		"sources":  len(result.Sources),
	})
	return result
}
