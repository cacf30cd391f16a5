// internal/workers/fitting/generate-virtual-fit/handler.go
package generatevirtualfit

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/studio/artifact"
	"costume-studio/internal/studio/pipeline"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskGenerateVirtualFit
)

type Fitter interface {
	GenerateVirtualFit(ctx context.Context, req pipeline.VirtualFitRequest) (string, error)
}

type Handler struct {
	config *Config
	fitter Fitter
	store  jobkit.ArtifactStore
	runner *jobkit.Runner
	logger logger.Logger
}

func NewHandler(config *Config, fitter Fitter, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log).WithStore(store)
	return &Handler{
		config: config,
		fitter: fitter,
		store:  store,
		runner: runner,
		logger: runner.Logger(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	var input Input
	return h.runner.Run(client, job, &input, func(ctx context.Context) (*jobkit.Result, error) {
		output, err := h.Execute(ctx, &input)
		if err != nil {
			return nil, err
		}
		return &jobkit.Result{Variables: output, ArtifactKeys: []string{output.FitImageKey}}, nil
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	model, err := h.store.Get(ctx, input.ModelImageKey)
	if err != nil {
		return nil, err
	}
	garment, err := h.store.Get(ctx, input.GarmentImageKey)
	if err != nil {
		return nil, err
	}

	locator, err := h.fitter.GenerateVirtualFit(ctx, pipeline.VirtualFitRequest{
		Model:       artifact.ReferenceFromArtifact(model),
		Garment:     artifact.ReferenceFromArtifact(garment),
		Description: input.Description,
		Context:     input.Context,
		Simulation:  input.Simulation,
	})
	if err != nil {
		return nil, err
	}

	key, err := jobkit.StoreLocator(ctx, h.store, locator)
	if err != nil {
		return nil, err
	}
	return &Output{FitImageKey: key}, nil
}
