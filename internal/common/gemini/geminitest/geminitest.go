// Package geminitest provides testify mocks of the generation backends and
// builders for canned responses.
package geminitest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"costume-studio/internal/common/gemini"
)

const APIKey = "test-api-key"

type ContentGenerator struct {
	mock.Mock
}

func (m *ContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

type VideoGenerator struct {
	mock.Mock
}

func (m *VideoGenerator) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	args := m.Called(ctx, model, prompt, image, config)
	op, _ := args.Get(0).(*genai.GenerateVideosOperation)
	return op, args.Error(1)
}

type OperationPoller struct {
	mock.Mock
}

func (m *OperationPoller) GetVideosOperation(ctx context.Context, operation *genai.GenerateVideosOperation, config *genai.GetOperationConfig) (*genai.GenerateVideosOperation, error) {
	args := m.Called(ctx, operation, config)
	op, _ := args.Get(0).(*genai.GenerateVideosOperation)
	return op, args.Error(1)
}

// Capabilities is a fixed model table so tests can assert on model names.
func Capabilities() gemini.Capabilities {
	return gemini.Capabilities{
		gemini.StageConversation: "test-conversation",
		gemini.StageGrounding:    "test-grounding",
		gemini.StageImage:        "test-image",
		gemini.StageVideo:        "test-video",
		gemini.StageAnalysis:     "test-analysis",
	}
}

// Backends bundles the three mocks behind one handle.
type Backends struct {
	Content    *ContentGenerator
	Videos     *VideoGenerator
	Operations *OperationPoller
	Client     *gemini.Client
}

func NewBackends() *Backends {
	b := &Backends{
		Content:    &ContentGenerator{},
		Videos:     &VideoGenerator{},
		Operations: &OperationPoller{},
	}
	b.Client = gemini.NewWithBackends(APIKey, Capabilities(), b.Content, b.Videos, b.Operations)
	return b
}

func (b *Backends) AssertExpectations(t mock.TestingT) {
	b.Content.AssertExpectations(t)
	b.Videos.AssertExpectations(t)
	b.Operations.AssertExpectations(t)
}

func TextResponse(text string) *genai.GenerateContentResponse {
	return partsResponse(genai.NewPartFromText(text))
}

func GroundedResponse(text string, uris ...string) *genai.GenerateContentResponse {
	resp := TextResponse(text)
	meta := &genai.GroundingMetadata{}
	for _, uri := range uris {
		meta.GroundingChunks = append(meta.GroundingChunks, &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: uri}})
	}
	resp.Candidates[0].GroundingMetadata = meta
	return resp
}

func InlineResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return partsResponse(genai.NewPartFromBytes(data, mimeType))
}

func FunctionCallResponse(id, name string, args map[string]any) *genai.GenerateContentResponse {
	return partsResponse(&genai.Part{FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args}})
}

func EmptyResponse() *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{}
}

func PendingOperation(name string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{Name: name}
}

func DoneOperation(name, uri string) *genai.GenerateVideosOperation {
	op := &genai.GenerateVideosOperation{Name: name, Done: true, Response: &genai.GenerateVideosResponse{}}
	if uri != "" {
		op.Response.GeneratedVideos = []*genai.GeneratedVideo{{Video: &genai.Video{URI: uri, MIMEType: "video/mp4"}}}
	}
	return op
}

func partsResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: string(genai.RoleModel), Parts: parts}}},
	}
}
