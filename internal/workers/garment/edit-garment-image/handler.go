// internal/workers/garment/edit-garment-image/handler.go
package editgarmentimage

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"costume-studio/internal/common/logger"
	"costume-studio/internal/workers/jobkit"
	"costume-studio/pkg/registry"
)

const (
	TaskType = registry.TaskEditGarmentImage
)

type ImageEditor interface {
	EditGarmentImage(ctx context.Context, image []byte, mediaType, directive string) (string, error)
}

type Handler struct {
	config *Config
	editor ImageEditor
	store  jobkit.ArtifactStore
	runner *jobkit.Runner
	logger logger.Logger
}

func NewHandler(config *Config, editor ImageEditor, store jobkit.ArtifactStore, ledger jobkit.RunRecorder, log logger.Logger) *Handler {
	runner := jobkit.NewRunner(TaskType, config.InputSchema, config.Timeout, ledger, log).WithStore(store)
	return &Handler{
		config: config,
		editor: editor,
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
		return &jobkit.Result{Variables: output, ArtifactKeys: []string{output.EditedImageKey}}, nil
	})
}

// Execute edits the stored image and stores the result under a new key.
// The source artifact is left untouched.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	source, err := h.store.Get(ctx, input.ImageKey)
	if err != nil {
		return nil, err
	}

	locator, err := h.editor.EditGarmentImage(ctx, source.Data, source.MediaType, input.Directive)
	if err != nil {
		return nil, err
	}

	key, err := jobkit.StoreLocator(ctx, h.store, locator)
	if err != nil {
		return nil, err
	}
	return &Output{EditedImageKey: key}, nil
}
