// internal/workers/media/analyze-video/handler.go
package analyzevideo

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskAnalyzeVideo
)

type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, video []byte, mediaType string) (string, error)
}

type Handler struct {
	config   *Config
	analyzer VideoAnalyzer
	store    jobkit.ArtifactStore
	runner   *jobkit.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, analyzer VideoAnalyzer, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
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
	video, err := h.store.Get(ctx, input.VideoKey)
	if err != nil {
		return nil, err
	}

	analysis, err := h.analyzer.AnalyzeVideo(ctx, video.Data, video.MediaType)
	if err != nil {
		return nil, err
	}
	return &Output{VideoAnalysis: analysis}, nil
}
