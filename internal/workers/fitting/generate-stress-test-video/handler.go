// internal/workers/fitting/generate-stress-test-video/handler.go
package generatestresstestvideo

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskGenerateStressTestVideo
)

type VideoGenerator interface {
	GenerateStressTestVideo(ctx context.Context, imageLocator, actionLabel string) (string, error)
}

type Handler struct {
	config     *Config
	generator  VideoGenerator
	downloader jobkit.Downloader
	store      jobkit.ArtifactStore
	runner     *jobkit.Runner
	logger     logger.Logger
}

func NewHandler(config *Config, generator VideoGenerator, downloader jobkit.Downloader, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log).WithStore(store)
	return &Handler{
		config:     config,
		generator:  generator,
		downloader: downloader,
		store:      store,
		runner:     runner,
		logger:     runner.Logger(),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	var input Input
	return h.runner.Run(client, job, &input, func(ctx context.Context) (*jobkit.Result, error) {
		output, err := h.Execute(ctx, &input)
		if err != nil {
			return nil, err
		}
		return &jobkit.Result{Variables: output, ArtifactKeys: []string{output.StressTestVideoKey}}, nil
	})
}

// Execute renders the clip and copies it into the store. The video locator
// carries the API key, so it never leaves this function.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	seed, err := jobkit.LoadLocator(ctx, h.store, input.ImageKey)
	if err != nil {
		return nil, err
	}

	locator, err := h.generator.GenerateStressTestVideo(ctx, seed, input.Action)
	if err != nil {
		return nil, err
	}

	video, err := jobkit.Materialize(ctx, h.downloader, locator, h.config.MediaType)
	if err != nil {
		return nil, err
	}

	key, err := h.store.Put(ctx, video)
	if err != nil {
		return nil, err
	}

	h.logger.Info("stress test video stored", map[string]interface{}{
		"action": input.Action,
		"bytes":  video.Size(),
	})
	return &Output{StressTestVideoKey: key}, nil
}
