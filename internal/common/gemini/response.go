package gemini

import (
	"strings"

	"google.golang.org/genai"
)

// FirstInlineData returns the first inline payload whose media type starts
// with prefix, scanning every candidate in order.
func FirstInlineData(resp *genai.GenerateContentResponse, prefix string) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if strings.HasPrefix(part.InlineData.MIMEType, prefix) {
				return part.InlineData
			}
		}
	}
	return nil
}

// GroundingSources collects web source URIs from grounding metadata,
// deduplicated in first-seen order.
func GroundingSources(resp *genai.GenerateContentResponse) []string {
	sources := []string{}
	if resp == nil {
		return sources
	}
	seen := make(map[string]bool)
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			sources = append(sources, chunk.Web.URI)
		}
	}
	return sources
}

// ResponseText concatenates the text parts of the first candidate. Thought
// parts are skipped.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

// FunctionCalls returns the function call requests of the first candidate.
func FunctionCalls(resp *genai.GenerateContentResponse) []*genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []*genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}
