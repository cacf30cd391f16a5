// internal/workers/design/generate-design/handler.go
package generatedesign

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskGenerateDesign
)

type Designer interface {
	GenerateDesign(ctx context.Context, brief models.DesignBrief) (*models.StructuredDesignResult, error)
}

type Handler struct {
	config   *Config
	designer Designer
	store    jobkit.ArtifactStore
	runner   *jobkit.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, designer Designer, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log).WithStore(store)
	return &Handler{
		config:   config,
		designer: designer,
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
		result := &jobkit.Result{Variables: output}
		if output.ConceptArtKey != "" {
			result.ArtifactKeys = []string{output.ConceptArtKey}
		}
		return result, nil
	})
}

// Execute generates the design and stores its concept art, if any. Concept
// art is best effort here as in the pipeline: a store failure leaves
// conceptArtKey unset and the design still completes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	design, err := h.designer.GenerateDesign(ctx, input.Brief)
	if err != nil {
		return nil, err
	}

	output := &Output{Design: design}
	if design.ConceptArt != nil {
		key, err := h.store.Put(ctx, design.ConceptArt)
		if err != nil {
			h.logger.Warn("Concept art not stored, completing without it", map[string]interface{}{
				"error_code": string(apperrors.CodeOf(err)),
				"error":      err.Error(),
			})
		}
		output.ConceptArtKey = key
	}

	result := *design
	result.ConceptArt = nil
	output.Design = &result

	h.logger.Info("design generated", map[string]interface{}{
		"title":         design.Title,
		"groundingLive": design.Grounding.Live,
		"conceptArt":    output.ConceptArtKey != "",
	})
	return output, nil
}
