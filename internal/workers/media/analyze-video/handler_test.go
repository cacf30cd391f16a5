// internal/workers/media/analyze-video/handler_test.go
package analyzevideo

import (
	"context"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/workers/jobkit/jobkittest"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeVideo(ctx context.Context, video []byte, mediaType string) (string, error) {
	args := m.Called(ctx, video, mediaType)
	return args.String(0), args.Error(1)
}

func TestHandler_Execute_Success(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	key := store.Seed("video/mp4", []byte("clip"))

	analyzer := &mockAnalyzer{}
	analyzer.On("AnalyzeVideo", mock.Anything, []byte("clip"), "video/mp4").
		Return("The cape tangles on the second turn.", nil)

	handler := NewHandler(LoadConfig(nil), analyzer, store, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{VideoKey: key})

	require.NoError(t, err)
	assert.Equal(t, "The cape tangles on the second turn.", output.VideoAnalysis)
	analyzer.AssertExpectations(t)
}

func TestHandler_Handle_TransportFailureIsThrown(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	key := store.Seed("video/mp4", []byte("clip"))

	analyzer := &mockAnalyzer{}
	analyzer.On("AnalyzeVideo", mock.Anything, mock.Anything, mock.Anything).Return("", apperrors.ErrTransport)
	client := jobkittest.NewJobClient()

	handler := NewHandler(LoadConfig(nil), analyzer, store, nil, logger.NewTestLogger(t))
	err := handler.Handle(client, entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       9,
		Type:      TaskType,
		Retries:   3,
		Variables: `{"videoKey":"` + key + `"}`,
	}})

	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Empty(t, client.Gateway.Completed)
	assert.Empty(t, client.Gateway.Failed)
	require.Len(t, client.Gateway.Thrown, 1)
	assert.Equal(t, "TRANSPORT_ERROR", client.Gateway.Thrown[0].ErrorCode)
}
