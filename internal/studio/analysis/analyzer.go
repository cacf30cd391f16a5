// Package analysis runs the multimodal understanding calls: fit reports,
// audio transcription and footage review.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/validation"
	"costume-studio/internal/models"
	"costume-studio/internal/studio/prompt"
)

// FitShape is the closed object returned by AnalyzeFit.
var FitShape = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"compatibilityScore": {
			Type:        "number",
			Description: "Production compatibility from 0 to 100",
			Minimum:     validation.FloatPtr(0),
			Maximum:     validation.FloatPtr(100),
		},
		"safetyIssues": {
			Type:        "array",
			Description: "Safety issues for the performer, empty when none",
			Items:       &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
		},
		"fabricNotes":        validation.NonEmptyString("How the fabric behaves"),
		"movementPrediction": validation.NonEmptyString("How the costume moves during action"),
	},
	Required: []string{"compatibilityScore", "safetyIssues", "fabricNotes", "movementPrediction"},
}

type Analyzer struct {
	client *gemini.Client
	log    logger.Logger
}

func New(client *gemini.Client, log logger.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		log:    log.WithFields(map[string]interface{}{"component": "analysis"}),
	}
}

// AnalyzeFit scores a fitted look. The result is only returned when it
// passed validation in full.
func (a *Analyzer) AnalyzeFit(ctx context.Context, image *models.GeneratedArtifact, constraints string) (*models.FitAnalysisResult, error) {
	if image == nil {
		return nil, fmt.Errorf("%w: no image to analyze", apperrors.ErrInvalidInput)
	}
	if err := checkMedia(image.Data, image.MediaType, "image/"); err != nil {
		return nil, err
	}

	resp, err := a.client.Content.GenerateContent(ctx,
		a.client.Model(gemini.StageAnalysis),
		[]*genai.Content{genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image.Data, image.MediaType),
			genai.NewPartFromText(prompt.FitAnalysisDirective(constraints)),
		}, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   gemini.ResponseSchema(FitShape),
		},
	)
	if err != nil {
		return nil, gemini.Transport("fit analysis", err)
	}

	var result models.FitAnalysisResult
	if err := validation.DecodeValidated(gemini.ResponseText(resp), FitShape, &result); err != nil {
		return nil, err
	}
	if result.SafetyIssues == nil {
		result.SafetyIssues = []string{}
	}
	return &result, nil
}

func (a *Analyzer) Transcribe(ctx context.Context, audio []byte, mediaType string) (string, error) {
	if err := checkMedia(audio, mediaType, "audio/"); err != nil {
		return "", err
	}
	return a.describe(ctx, "transcription", audio, mediaType, prompt.TranscriptionDirective)
}

func (a *Analyzer) AnalyzeVideo(ctx context.Context, video []byte, mediaType string) (string, error) {
	if err := checkMedia(video, mediaType, "video/"); err != nil {
		return "", err
	}
	return a.describe(ctx, "video analysis", video, mediaType, prompt.VideoAnalysisDirective)
}

func (a *Analyzer) describe(ctx context.Context, op string, data []byte, mediaType, directive string) (string, error) {
	resp, err := a.client.Content.GenerateContent(ctx,
		a.client.Model(gemini.StageAnalysis),
		[]*genai.Content{genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mediaType),
			genai.NewPartFromText(directive),
		}, genai.RoleUser)},
		nil,
	)
	if err != nil {
		return "", gemini.Transport(op, err)
	}

	text := gemini.ResponseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: %s returned no text", apperrors.ErrMalformedOutput, op)
	}
	a.log.Debug("Media described", map[string]interface{}{
		"operation":  op,
		"media_type": mediaType,
		"chars":      len(text),
	})
	return text, nil
}

func checkMedia(data []byte, mediaType, family string) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: media payload is empty", apperrors.ErrInvalidInput)
	}
	if !strings.HasPrefix(mediaType, family) {
		return fmt.Errorf("%w: media type %q is not %s*", apperrors.ErrInvalidInput, mediaType, family)
	}
	return nil
}
