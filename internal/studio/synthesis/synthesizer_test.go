package synthesis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini/geminitest"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
)

func testBrief() models.DesignBrief {
	return models.DesignBrief{
		ProjectType:           "feature film",
		SceneContext:          "night chase across wet rooftops",
		CharacterProfile:      "retired detective pulled back into one last case",
		PsychologicalState:    "exhausted, guarded",
		FilmingLocation:       "London",
		ProductionConstraints: "stunt double, mid budget",
	}
}

func designJSON(temperature float64, condition string) string {
	doc := map[string]interface{}{
		"title":       "The Last Watch",
		"description": "A worn trench over practical layers.",
		"breakdown": map[string]interface{}{
			"basics":       "grey henley, dark trousers",
			"layers":       "waxed trench coat",
			"shoes":        "resoled leather boots",
			"accessories":  "battered wristwatch",
			"materials":    "waxed cotton, wool",
			"colorPalette": []string{"charcoal", "olive", "rust"},
		},
		"rationale": []string{"The coat is armour.", "Muted tones keep him invisible."},
		"productionNotes": map[string]interface{}{
			"copies":             "4 for stunts",
			"distressing":        "heavy at cuffs and hem",
			"cameraWarnings":     "avoid fine herringbone",
			"weatherAlternative": "rubberised shell",
			"budgetAlternative":  "thrifted trench",
		},
		"imagePrompt": "Full-body illustration of a detective in a waxed trench coat.",
		"weather": map[string]interface{}{
			"temperature": temperature,
			"condition":   condition,
		},
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

func TestSynthesize_DirectAnswerWithDefaults(t *testing.T) {
	backends := geminitest.NewBackends()
	backends.Content.On("GenerateContent", mock.Anything, "test-conversation",
		mock.MatchedBy(func(contents []*genai.Content) bool { return len(contents) == 1 }),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.ResponseMIMEType == "application/json" &&
				cfg.ResponseSchema != nil &&
				len(cfg.Tools) == 1 &&
				cfg.Tools[0].FunctionDeclarations[0].Name == LocationConditionsTool
		})).
		Return(geminitest.TextResponse("```json\n"+designJSON(48, "rain")+"\n```"), nil).
		Once()

	s := New(backends.Client, logger.NewTestLogger(t))
	got, err := s.Synthesize(context.Background(), testBrief(), models.DefaultGroundingContext("London"))
	require.NoError(t, err)

	want := &models.StructuredDesignResult{
		Title:       "The Last Watch",
		Description: "A worn trench over practical layers.",
		Breakdown: models.Breakdown{
			Basics:       "grey henley, dark trousers",
			Layers:       "waxed trench coat",
			Shoes:        "resoled leather boots",
			Accessories:  "battered wristwatch",
			Materials:    "waxed cotton, wool",
			ColorPalette: []string{"charcoal", "olive", "rust"},
		},
		Rationale: []string{"The coat is armour.", "Muted tones keep him invisible."},
		ProductionNotes: models.ProductionNotes{
			Copies:             "4 for stunts",
			Distressing:        "heavy at cuffs and hem",
			CameraWarnings:     "avoid fine herringbone",
			WeatherAlternative: "rubberised shell",
			BudgetAlternative:  "thrifted trench",
		},
		ImagePrompt: "Full-body illustration of a detective in a waxed trench coat.",
		Grounding:   models.DefaultGroundingContext("London"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Synthesize() mismatch (-want +got):\n%s", diff)
	}
	backends.Content.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestSynthesize_LiveGroundingResolvesWeather(t *testing.T) {
	backends := geminitest.NewBackends()
	backends.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(geminitest.TextResponse(designJSON(54, "light drizzle")), nil).Once()

	grounding := models.DefaultGroundingContext("London")
	grounding.Live = true
	grounding.Summary = "Around 54F with light drizzle"
	grounding.Sources = []string{"https://met.example"}

	got, err := New(backends.Client, logger.NewNoOpLogger()).Synthesize(context.Background(), testBrief(), grounding)
	require.NoError(t, err)
	assert.Equal(t, 54.0, got.Grounding.Temperature)
	assert.Equal(t, "light drizzle", got.Grounding.Condition)
	assert.Equal(t, []string{"https://met.example"}, got.Grounding.Sources)
	assert.True(t, got.Grounding.Live)
}

func TestSynthesize_ToolRoundTrip(t *testing.T) {
	backends := geminitest.NewBackends()
	backends.Content.On("GenerateContent", mock.Anything, mock.Anything,
		mock.MatchedBy(func(contents []*genai.Content) bool { return len(contents) == 1 }), mock.Anything).
		Return(geminitest.FunctionCallResponse("call-7", LocationConditionsTool, map[string]any{"location": "London"}), nil).
		Once()
	backends.Content.On("GenerateContent", mock.Anything, mock.Anything,
		mock.MatchedBy(func(contents []*genai.Content) bool {
			if len(contents) != 3 || len(contents[2].Parts) != 1 {
				return false
			}
			fr := contents[2].Parts[0].FunctionResponse
			return contents[2].Role == string(genai.RoleUser) &&
				fr != nil && fr.ID == "call-7" && fr.Name == LocationConditionsTool &&
				fr.Response["temperature"] == 54.0
		}), mock.Anything).
		Return(geminitest.TextResponse(designJSON(54, "overcast with light drizzle")), nil).
		Once()

	got, err := New(backends.Client, logger.NewTestLogger(t)).Synthesize(context.Background(), testBrief(), models.DefaultGroundingContext("London"))
	require.NoError(t, err)
	assert.Equal(t, 54.0, got.Grounding.Temperature)
	assert.Equal(t, "overcast with light drizzle", got.Grounding.Condition)
	backends.AssertExpectations(t)
}

func TestSynthesize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *geminitest.Backends)
		wantErr error
	}{
		{
			name: "unknown tool",
			setup: func(b *geminitest.Backends) {
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(geminitest.FunctionCallResponse("c1", "book_flight", nil), nil).Once()
			},
			wantErr: apperrors.ErrUnknownTool,
		},
		{
			name: "second tool call",
			setup: func(b *geminitest.Backends) {
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(geminitest.FunctionCallResponse("c1", LocationConditionsTool, map[string]any{"location": "Paris"}), nil).Once()
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(geminitest.FunctionCallResponse("c2", LocationConditionsTool, map[string]any{"location": "Paris"}), nil).Once()
			},
			wantErr: apperrors.ErrUnexpectedToolCall,
		},
		{
			name: "missing required key",
			setup: func(b *geminitest.Backends) {
				var doc map[string]interface{}
				_ = json.Unmarshal([]byte(designJSON(60, "clear")), &doc)
				delete(doc, "productionNotes")
				raw, _ := json.Marshal(doc)
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(geminitest.TextResponse(string(raw)), nil).Once()
			},
			wantErr: apperrors.ErrMalformedOutput,
		},
		{
			name: "not json",
			setup: func(b *geminitest.Backends) {
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(geminitest.TextResponse("Here is your design!"), nil).Once()
			},
			wantErr: apperrors.ErrMalformedOutput,
		},
		{
			name: "transport",
			setup: func(b *geminitest.Backends) {
				b.Content.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("503 unavailable")).Once()
			},
			wantErr: apperrors.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backends := geminitest.NewBackends()
			tt.setup(backends)

			got, err := New(backends.Client, logger.NewNoOpLogger()).Synthesize(context.Background(), testBrief(), models.DefaultGroundingContext("London"))
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDesignGenerationFailed)
			assert.ErrorIs(t, err, tt.wantErr)
			backends.AssertExpectations(t)
		})
	}
}

func TestSynthesize_InvalidBrief(t *testing.T) {
	backends := geminitest.NewBackends()

	_, err := New(backends.Client, logger.NewNoOpLogger()).Synthesize(context.Background(), models.DesignBrief{}, models.DefaultGroundingContext(""))
	assert.ErrorIs(t, err, apperrors.ErrDesignGenerationFailed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	backends.Content.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithOptions(t *testing.T) {
	backends := geminitest.NewBackends()
	s := New(backends.Client, logger.NewNoOpLogger(), WithTools(NewToolRegistry()), WithTemperature(0.2))

	cfg := s.conversationConfig()
	assert.Nil(t, cfg.Tools)
	assert.InDelta(t, 0.2, float64(*cfg.Temperature), 1e-6)

	s = New(backends.Client, logger.NewNoOpLogger(), WithTemperature(0))
	assert.InDelta(t, defaultTemperature, float64(*s.conversationConfig().Temperature), 1e-6)
}

func TestLocationConditions(t *testing.T) {
	tool := LocationConditions{}

	got, err := tool.Call(context.Background(), map[string]any{"location": "London, UK"})
	require.NoError(t, err)
	assert.Equal(t, 54.0, got["temperature"])
	assert.Equal(t, "seasonal normals", got["source"])

	got, err = tool.Call(context.Background(), map[string]any{"location": "Atlantis"})
	require.NoError(t, err)
	assert.Equal(t, float64(models.DefaultTemperature), got["temperature"])
	assert.Equal(t, models.DefaultCondition, got["condition"])

	_, err = tool.Call(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Equal(t, []string{LocationConditionsTool}, DefaultTools().Names())
}

func TestToolRegistry_UnknownToolListsRegistered(t *testing.T) {
	_, err := DefaultTools().Resolve(context.Background(), []*genai.FunctionCall{{ID: "c1", Name: "book_flight"}})

	assert.ErrorIs(t, err, apperrors.ErrUnknownTool)
	assert.Contains(t, err.Error(), `"book_flight" (registered: get_location_conditions)`)
}
