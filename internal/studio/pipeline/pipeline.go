// Package pipeline composes the studio stages into the public operations.
// Every operation is an independent stateless call; the only shared state
// is the read-only gemini handle.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/common/metrics"
	"costume-studio/internal/models"
	"costume-studio/internal/studio/analysis"
	"costume-studio/internal/studio/artifact"
	"costume-studio/internal/studio/grounding"
	"costume-studio/internal/studio/prompt"
	"costume-studio/internal/studio/synthesis"
)

const tracerName = "costume-studio/pipeline"

// Stage names used for spans and metrics.
const (
	stageGrounding     = "grounding"
	stageSynthesis     = "synthesis"
	stageConceptArt    = "concept_art"
	stageGarmentAsset  = "garment_asset"
	stageEditImage     = "edit_image"
	stageVirtualFit    = "virtual_fit"
	stageFitAnalysis   = "fit_analysis"
	stageVideoStart    = "video_start"
	stageVideoAwait    = "video_await"
	stageTranscription = "transcription"
	stageVideoAnalysis = "video_analysis"
)

type Pipeline struct {
	grounding   *grounding.Gatherer
	synthesizer *synthesis.Synthesizer
	artifacts   *artifact.Client
	analyzer    *analysis.Analyzer
	settings    Settings
	tracer      trace.Tracer
	log         logger.Logger
}

type Option func(*options)

type options struct {
	settings     Settings
	synthesisOps []synthesis.Option
	artifactOps  []artifact.Option
	tracer       trace.Tracer
}

func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = s }
}

func WithSynthesisOptions(opts ...synthesis.Option) Option {
	return func(o *options) { o.synthesisOps = append(o.synthesisOps, opts...) }
}

func WithArtifactOptions(opts ...artifact.Option) Option {
	return func(o *options) { o.artifactOps = append(o.artifactOps, opts...) }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New wires every stage to the shared handle.
func New(client *gemini.Client, log logger.Logger, opts ...Option) *Pipeline {
	o := &options{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	return &Pipeline{
		grounding:   grounding.New(client, log),
		synthesizer: synthesis.New(client, log, o.synthesisOps...),
		artifacts:   artifact.New(client, log, o.artifactOps...),
		analyzer:    analysis.New(client, log),
		settings:    o.settings,
		tracer:      o.tracer,
		log:         log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// GenerateDesign runs grounding, the design conversation and concept art.
// Grounding and concept art follow the configured policies; every other
// failure is ErrDesignGenerationFailed.
func (p *Pipeline) GenerateDesign(ctx context.Context, brief models.DesignBrief) (*models.StructuredDesignResult, error) {
	ctx, span := p.tracer.Start(ctx, "GenerateDesign", trace.WithAttributes(
		attribute.String("brief.project_type", brief.ProjectType),
		attribute.String("brief.location", brief.FilmingLocation),
	))
	defer span.End()

	if err := brief.Validate(); err != nil {
		return nil, p.fail(span, fmt.Errorf("%w: %w: %v", apperrors.ErrDesignGenerationFailed, apperrors.ErrInvalidInput, err))
	}

	conditions, err := p.ground(ctx, brief.FilmingLocation)
	if err != nil {
		return nil, p.fail(span, fmt.Errorf("%w: %w", apperrors.ErrDesignGenerationFailed, err))
	}

	var result *models.StructuredDesignResult
	err = p.stage(ctx, stageSynthesis, func(ctx context.Context) error {
		var err error
		result, err = p.synthesizer.Synthesize(ctx, brief, conditions)
		return err
	})
	if err != nil {
		return nil, p.fail(span, err)
	}

	var art *models.GeneratedArtifact
	err = p.stage(ctx, stageConceptArt, func(ctx context.Context) error {
		var err error
		art, err = p.artifacts.GenerateImage(ctx, artifact.ImageRequest{
			Directive: prompt.ConceptArtDirective(result.ImagePrompt, result.Grounding),
			SizeTier:  p.settings.ConceptArtSize,
		})
		return err
	})
	if err != nil {
		if p.settings.Policies.ConceptArt == Fatal {
			return nil, p.fail(span, fmt.Errorf("%w: concept art: %w", apperrors.ErrDesignGenerationFailed, err))
		}
		p.degrade(stageConceptArt, err)
	}
	result.ConceptArt = art

	span.SetAttributes(
		attribute.Bool("design.grounding_live", result.Grounding.Live),
		attribute.Bool("design.concept_art", art != nil),
	)
	p.log.Info("Design generated", map[string]interface{}{
		"title":          result.Title,
		"grounding_live": result.Grounding.Live,
		"concept_art":    art != nil,
	})
	return result, nil
}

// ground returns live conditions, or the default context when grounding is
// skipped or fails under BestEffort.
func (p *Pipeline) ground(ctx context.Context, location string) (models.GroundingContext, error) {
	if p.settings.SkipGrounding {
		return models.DefaultGroundingContext(location), nil
	}

	var conditions models.GroundingContext
	if p.settings.Policies.Grounding == Fatal {
		err := p.stage(ctx, stageGrounding, func(ctx context.Context) error {
			var err error
			conditions, err = p.grounding.Lookup(ctx, location)
			return err
		})
		if err != nil {
			return models.GroundingContext{}, err
		}
		return conditions, nil
	}

	// Gather logs its own fallback; the stage still reports it.
	err := p.stage(ctx, stageGrounding, func(ctx context.Context) error {
		conditions = p.grounding.Gather(ctx, location)
		if conditions.IsDefault() {
			return fmt.Errorf("%w: %s", apperrors.ErrGroundingUnavailable, location)
		}
		return nil
	})
	if err != nil {
		metrics.StageDegraded.WithLabelValues(stageGrounding).Inc()
	}
	return conditions, nil
}

func (p *Pipeline) GenerateGarmentAsset(ctx context.Context, description, sizeTier string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "GenerateGarmentAsset")
	defer span.End()

	if strings.TrimSpace(description) == "" {
		return "", p.fail(span, fmt.Errorf("%w: garment description is empty", apperrors.ErrInvalidInput))
	}
	tier, err := artifact.ParseSizeTier(sizeTier)
	if err != nil {
		return "", p.fail(span, err)
	}

	art, err := p.image(ctx, stageGarmentAsset, artifact.ImageRequest{
		Directive: prompt.GarmentAssetDirective(description),
		SizeTier:  tier,
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return art.Locator(), nil
}

func (p *Pipeline) EditGarmentImage(ctx context.Context, image []byte, mediaType, directive string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "EditGarmentImage")
	defer span.End()

	if strings.TrimSpace(directive) == "" {
		return "", p.fail(span, fmt.Errorf("%w: edit directive is empty", apperrors.ErrInvalidInput))
	}

	var art *models.GeneratedArtifact
	err := p.stage(ctx, stageEditImage, func(ctx context.Context) error {
		var err error
		art, err = p.artifacts.EditImage(ctx, artifact.Reference{Data: image, MediaType: mediaType}, prompt.EditDirective(directive))
		return err
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return art.Locator(), nil
}

// VirtualFitRequest carries the model photo, the garment image and the
// optional scene context and simulation settings.
type VirtualFitRequest struct {
	Model       artifact.Reference
	Garment     artifact.Reference
	Description string
	Context     string
	Simulation  *models.SimulationConfig
}

func (p *Pipeline) GenerateVirtualFit(ctx context.Context, req VirtualFitRequest) (string, error) {
	ctx, span := p.tracer.Start(ctx, "GenerateVirtualFit")
	defer span.End()

	directive, err := prompt.VirtualFitDirective(req.Description, req.Context, req.Simulation)
	if err != nil {
		return "", p.fail(span, err)
	}

	art, err := p.image(ctx, stageVirtualFit, artifact.ImageRequest{
		Directive:  directive,
		References: []artifact.Reference{req.Model, req.Garment},
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return art.Locator(), nil
}

func (p *Pipeline) AnalyzeFitCompatibility(ctx context.Context, imageLocator, constraints string) (*models.FitAnalysisResult, error) {
	ctx, span := p.tracer.Start(ctx, "AnalyzeFitCompatibility")
	defer span.End()

	image, err := models.ParseLocator(imageLocator)
	if err != nil {
		return nil, p.fail(span, err)
	}

	var result *models.FitAnalysisResult
	err = p.stage(ctx, stageFitAnalysis, func(ctx context.Context) error {
		var err error
		result, err = p.analyzer.AnalyzeFit(ctx, image, constraints)
		return err
	})
	if err != nil {
		return nil, p.fail(span, err)
	}
	span.SetAttributes(attribute.Float64("fit.compatibility_score", result.CompatibilityScore))
	return result, nil
}

// GenerateStressTestVideo starts a video job from the image and waits for it.
// Abandoning ctx stops waiting; the remote job keeps running.
func (p *Pipeline) GenerateStressTestVideo(ctx context.Context, imageLocator, actionLabel string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "GenerateStressTestVideo", trace.WithAttributes(
		attribute.String("video.action", actionLabel),
	))
	defer span.End()

	image, err := models.ParseLocator(imageLocator)
	if err != nil {
		return "", p.fail(span, err)
	}

	var job *models.Job
	err = p.stage(ctx, stageVideoStart, func(ctx context.Context) error {
		var err error
		job, err = p.artifacts.StartVideo(ctx, artifact.VideoRequest{
			Seed:        artifact.ReferenceFromArtifact(image),
			Directive:   prompt.StressTestDirective(actionLabel),
			Count:       p.settings.VideoCount,
			Resolution:  p.settings.VideoResolution,
			AspectRatio: p.settings.VideoAspectRatio,
		})
		return err
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	span.SetAttributes(attribute.String("video.job", job.Name))

	var locator string
	err = p.stage(ctx, stageVideoAwait, func(ctx context.Context) error {
		var err error
		locator, err = p.artifacts.AwaitVideo(ctx, job)
		return err
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return locator, nil
}

func (p *Pipeline) TranscribeAudio(ctx context.Context, audio []byte, mediaType string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "TranscribeAudio")
	defer span.End()

	var text string
	err := p.stage(ctx, stageTranscription, func(ctx context.Context) error {
		var err error
		text, err = p.analyzer.Transcribe(ctx, audio, mediaType)
		return err
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return text, nil
}

func (p *Pipeline) AnalyzeVideo(ctx context.Context, video []byte, mediaType string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "AnalyzeVideo")
	defer span.End()

	var text string
	err := p.stage(ctx, stageVideoAnalysis, func(ctx context.Context) error {
		var err error
		text, err = p.analyzer.AnalyzeVideo(ctx, video, mediaType)
		return err
	})
	if err != nil {
		return "", p.fail(span, err)
	}
	return text, nil
}

func (p *Pipeline) image(ctx context.Context, stage string, req artifact.ImageRequest) (*models.GeneratedArtifact, error) {
	var art *models.GeneratedArtifact
	err := p.stage(ctx, stage, func(ctx context.Context) error {
		var err error
		art, err = p.artifacts.GenerateImage(ctx, req)
		return err
	})
	return art, err
}

// stage runs fn inside a child span and records its outcome.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StageCalls.WithLabelValues(name, metrics.StatusError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
		return err
	}
	metrics.StageCalls.WithLabelValues(name, metrics.StatusOK).Inc()
	return nil
}

func (p *Pipeline) degrade(stage string, err error) {
	metrics.StageDegraded.WithLabelValues(stage).Inc()
	p.log.Warn("Best-effort stage failed, continuing", map[string]interface{}{
		"stage":      stage,
		"error_code": string(apperrors.CodeOf(err)),
		"error":      err.Error(),
	})
}

func (p *Pipeline) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
	return err
}
