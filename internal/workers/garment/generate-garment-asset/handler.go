// internal/workers/garment/generate-garment-asset/handler.go
package generategarmentasset

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskGenerateGarmentAsset
)

type AssetGenerator interface {
	GenerateGarmentAsset(ctx context.Context, description, sizeTier string) (string, error)
}

type Handler struct {
	config    *Config
	generator AssetGenerator
	store     jobkit.ArtifactStore
	runner    *jobkit.Runner
	logger    logger.Logger
}

func NewHandler(config *Config, generator AssetGenerator, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log).WithStore(store)
	return &Handler{
		config:    config,
		generator: generator,
		store:     store,
		runner:    runner,
		logger:    runner.Logger(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	var input Input
	return h.runner.Run(client, job, &input, func(ctx context.Context) (*jobkit.Result, error) {
		output, err := h.Execute(ctx, &input)
		if err != nil {
			return nil, err
		}
		return &jobkit.Result{Variables: output, ArtifactKeys: []string{output.GarmentImageKey}}, nil
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	locator, err := h.generator.GenerateGarmentAsset(ctx, input.Description, input.SizeTier)
	if err != nil {
		return nil, err
	}

	key, err := jobkit.StoreLocator(ctx, h.store, locator)
	if err != nil {
		return nil, err
	}
	return &Output{GarmentImageKey: key}, nil
}
