// internal/workers/garment/generate-garment-asset/handler_test.go
package generategarmentasset

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/workers/jobkit/jobkittest"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateGarmentAsset(ctx context.Context, description, sizeTier string) (string, error) {
	args := m.Called(ctx, description, sizeTier)
	return args.String(0), args.Error(1)
}

func pngLocator(data string) string {
	return (&models.GeneratedArtifact{MediaType: "image/png", Data: []byte(data)}).Locator()
}

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "default tier", input: Input{Description: "Victorian riding coat"}},
		{name: "4K tier", input: Input{Description: "Silk kimono", SizeTier: "4K"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &mockGenerator{}
			generator.On("GenerateGarmentAsset", mock.Anything, tt.input.Description, tt.input.SizeTier).
				Return(pngLocator("garment"), nil)
			store := jobkittest.NewMemoryStore()
			handler := NewHandler(LoadConfig(nil), generator, store, nil, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &tt.input)

			require.NoError(t, err)
			stored, err := store.Get(context.Background(), output.GarmentImageKey)
			require.NoError(t, err)
			assert.Equal(t, "image/png", stored.MediaType)
			assert.Equal(t, []byte("garment"), stored.Data)
			generator.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_NoArtifact(t *testing.T) {
	generator := &mockGenerator{}
	generator.On("GenerateGarmentAsset", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: response had no image", apperrors.ErrNoArtifactProduced))
	store := jobkittest.NewMemoryStore()
	handler := NewHandler(LoadConfig(nil), generator, store, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Description: "cape"})

	assert.ErrorIs(t, err, apperrors.ErrNoArtifactProduced)
	assert.Zero(t, store.Len())
}

func TestLoadConfig_UsesRegistryTimeout(t *testing.T) {
	cfg := LoadConfig(nil)
	assert.Equal(t, "2m0s", cfg.Timeout.String())
	assert.Contains(t, cfg.InputSchema.Required, "description")
}
