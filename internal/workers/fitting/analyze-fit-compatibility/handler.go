// internal/workers/fitting/analyze-fit-compatibility/handler.go
package analyzefitcompatibility

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskAnalyzeFitCompatibility
)

type FitAnalyzer interface {
	AnalyzeFitCompatibility(ctx context.Context, imageLocator, constraints string) (*models.FitAnalysisResult, error)
}

type Handler struct {
	config   *Config
	analyzer FitAnalyzer
	store    jobkit.ArtifactStore
	runner   *jobkit.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, analyzer FitAnalyzer, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log)
	return &Handler{
		config:   config,
		analyzer: analyzer,
		store:    store,
		runner:   runner,
		logger:   runner.Logger(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	var input Input
	return h.runner.Run(client, job, &input, func(ctx context.Context) (*jobkit.Result, error) {
		output, err := h.Execute(ctx, &input)
		if err != nil {
			return nil, err
		}
		return &jobkit.Result{Variables: output}, nil
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	locator, err := jobkit.LoadLocator(ctx, h.store, input.ImageKey)
	if err != nil {
		return nil, err
	}

	result, err := h.analyzer.AnalyzeFitCompatibility(ctx, locator, input.ActorConstraints)
	if err != nil {
		return nil, err
	}

	h.logger.Info("fit analysed", map[string]interface{}{
		"compatibilityScore": result.CompatibilityScore,
		"safetyIssues":       len(result.SafetyIssues),
	})
	return &Output{FitAnalysis: result}, nil
}
