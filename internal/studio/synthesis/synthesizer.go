// Package synthesis drives the tool-calling design conversation that turns
// a brief into a validated structured design.
package synthesis

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/validation"
	"costume-studio/internal/models"
	"costume-studio/internal/studio/prompt"
)

const defaultTemperature = 0.7

type Synthesizer struct {
	client      *gemini.Client
	tools       *ToolRegistry
	temperature float32
	log         logger.Logger
}

type Option func(*Synthesizer)

func WithTools(tools *ToolRegistry) Option {
	return func(s *Synthesizer) { s.tools = tools }
}

// WithTemperature sets the sampling temperature; values <= 0 keep the default.
func WithTemperature(t float64) Option {
	return func(s *Synthesizer) {
		if t > 0 {
			s.temperature = float32(t)
		}
	}
}

func New(client *gemini.Client, log logger.Logger, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		client:      client,
		tools:       DefaultTools(),
		temperature: defaultTemperature,
		log:         log.WithFields(map[string]interface{}{"component": "synthesis"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize produces one validated design. At most one tool round trip is
// resolved; every failure is reported as ErrDesignGenerationFailed.
func (s *Synthesizer) Synthesize(ctx context.Context, brief models.DesignBrief, grounding models.GroundingContext) (*models.StructuredDesignResult, error) {
	result, err := s.converse(ctx, brief, grounding)
	if err != nil {
		s.log.Error("Design conversation failed", map[string]interface{}{
			"error_code": string(apperrors.CodeOf(err)),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDesignGenerationFailed, err)
	}
	return result, nil
}

func (s *Synthesizer) converse(ctx context.Context, brief models.DesignBrief, grounding models.GroundingContext) (*models.StructuredDesignResult, error) {
	if err := brief.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	model := s.client.Model(gemini.StageConversation)
	config := s.conversationConfig()
	opening := genai.NewContentFromText(prompt.DesignUserTurn(brief, grounding), genai.RoleUser)
	s.log.Debug("Opening design conversation", map[string]interface{}{
		"model": model,
		"tools": s.tools.Names(),
	})

	resp, err := s.client.Content.GenerateContent(ctx, model, []*genai.Content{opening}, config)
	if err != nil {
		return nil, gemini.Transport("design conversation", err)
	}

	toolUsed := false
	if calls := gemini.FunctionCalls(resp); len(calls) > 0 {
		s.log.Info("Resolving tool calls", map[string]interface{}{
			"calls": len(calls),
			"tool":  calls[0].Name,
		})
		parts, err := s.tools.Resolve(ctx, calls)
		if err != nil {
			return nil, err
		}

		history := []*genai.Content{
			opening,
			resp.Candidates[0].Content,
			genai.NewContentFromParts(parts, genai.RoleUser),
		}
		resp, err = s.client.Content.GenerateContent(ctx, model, history, config)
		if err != nil {
			return nil, gemini.Transport("design conversation follow-up", err)
		}
		if again := gemini.FunctionCalls(resp); len(again) > 0 {
			return nil, fmt.Errorf("%w: %q requested after tool resolution", apperrors.ErrUnexpectedToolCall, again[0].Name)
		}
		toolUsed = true
	}

	var out designOutput
	if err := validation.DecodeValidated(gemini.ResponseText(resp), DesignShape, &out); err != nil {
		return nil, err
	}

	resolved := grounding
	if resolved.Sources == nil {
		resolved.Sources = []string{}
	}
	if grounding.Live || toolUsed {
		resolved.Temperature = out.Weather.Temperature
		resolved.Condition = out.Weather.Condition
	}

	return &models.StructuredDesignResult{
		Title:           out.Title,
		Description:     out.Description,
		Breakdown:       out.Breakdown,
		Rationale:       out.Rationale,
		ProductionNotes: out.ProductionNotes,
		ImagePrompt:     out.ImagePrompt,
		Grounding:       resolved,
	}, nil
}

func (s *Synthesizer) conversationConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.DesignSystemDirective, genai.RoleUser),
		Temperature:       genai.Ptr(s.temperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    gemini.ResponseSchema(DesignShape),
	}
	if decls := s.tools.Declarations(); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}
