// internal/workers/fitting/analyze-fit-compatibility/handler_test.go
package analyzefitcompatibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/workers/jobkit/jobkittest"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeFitCompatibility(ctx context.Context, imageLocator, constraints string) (*models.FitAnalysisResult, error) {
	args := m.Called(ctx, imageLocator, constraints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FitAnalysisResult), args.Error(1)
}

func TestHandler_Execute_Success(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	key := store.Seed("image/png", []byte("fit"))
	locator := (&models.GeneratedArtifact{MediaType: "image/png", Data: []byte("fit")}).Locator()

	expected := &models.FitAnalysisResult{
		CompatibilityScore: 82,
		SafetyIssues:       []string{"hem may catch on stairs"},
		FabricNotes:        "Wool crepe breathes under lights.",
		MovementPrediction: "Full stride possible.",
	}
	analyzer := &mockAnalyzer{}
	analyzer.On("AnalyzeFitCompatibility", mock.Anything, locator, "asthma, avoid tight chest").Return(expected, nil)

	handler := NewHandler(LoadConfig(nil), analyzer, store, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{ImageKey: key, ActorConstraints: "asthma, avoid tight chest"})

	require.NoError(t, err)
	assert.Equal(t, expected, output.FitAnalysis)
	analyzer.AssertExpectations(t)
}

func TestHandler_Execute_MalformedAnalysis(t *testing.T) {
	store := jobkittest.NewMemoryStore()
	key := store.Seed("image/png", []byte("fit"))

	analyzer := &mockAnalyzer{}
	analyzer.On("AnalyzeFitCompatibility", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrMalformedOutput)

	handler := NewHandler(LoadConfig(nil), analyzer, store, nil, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{ImageKey: key})

	assert.ErrorIs(t, err, apperrors.ErrMalformedOutput)
}
