package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"costume-studio/internal/common/validation"
)

func TestResponseSchema(t *testing.T) {
	shape := validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"title": validation.NonEmptyString("Title"),
			"score": {Type: "number", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(100)},
			"notes": {
				Type: "object",
				Properties: map[string]validation.Property{
					"copies": validation.NonEmptyString(""),
				},
				Required: []string{"copies"},
			},
			"tags": validation.NonEmptyStringList("Tags"),
		},
		Required: []string{"title", "score", "notes", "tags"},
	}

	got := ResponseSchema(shape)

	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"notes", "score", "tags", "title"}, got.PropertyOrdering)
	assert.Equal(t, shape.Required, got.Required)

	require.Contains(t, got.Properties, "title")
	assert.Equal(t, genai.TypeString, got.Properties["title"].Type)
	assert.Equal(t, int64(1), *got.Properties["title"].MinLength)

	assert.Equal(t, 100.0, *got.Properties["score"].Maximum)

	notes := got.Properties["notes"]
	assert.Equal(t, []string{"copies"}, notes.Required)
	assert.Equal(t, []string{"copies"}, notes.PropertyOrdering)

	tags := got.Properties["tags"]
	assert.Equal(t, genai.TypeArray, tags.Type)
	require.NotNil(t, tags.Items)
	assert.Equal(t, genai.TypeString, tags.Items.Type)
	assert.Equal(t, int64(1), *tags.MinItems)
}
