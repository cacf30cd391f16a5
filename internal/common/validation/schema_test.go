package validation

import (
	"errors"
	"testing"

	apperrors "costume-studio/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func lookSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"title", "palette", "notes", "score"},
		Properties: map[string]Property{
			"title":   NonEmptyString("look title"),
			"palette": NonEmptyStringList("colors"),
			"score":   {Type: "number", Minimum: FloatPtr(0), Maximum: FloatPtr(100)},
			"notes": {
				Type:     "object",
				Required: []string{"copies", "distressing"},
				Properties: map[string]Property{
					"copies":      NonEmptyString(""),
					"distressing": NonEmptyString(""),
				},
			},
		},
		AdditionalProperties: true,
	}
}

const validLook = `{
  "title": "Rain-soaked courier",
  "palette": ["slate", "oxblood"],
  "score": 82,
  "notes": {"copies": "3 hero, 2 stunt", "distressing": "frayed cuffs"}
}`

// ==========================
// StripCodeFence Tests
// ==========================

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no fence", ` {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.raw))
		})
	}
}

// ==========================
// ValidateJSON Tests
// ==========================

func TestValidateJSON_Accepts(t *testing.T) {
	object, err := ValidateJSON("```json\n"+validLook+"\n```", lookSchema())
	require.NoError(t, err)
	assert.Equal(t, "Rain-soaked courier", object["title"])
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", "  "},
		{"not json", "the look is great"},
		{"array", `["a"]`},
		{"two objects", `{"a":1} {"b":2}`},
		{"missing top-level key", `{"palette":["a"],"score":1,"notes":{"copies":"x","distressing":"y"}}`},
		{"missing nested key", `{"title":"t","palette":["a"],"score":1,"notes":{"copies":"x"}}`},
		{"wrong kind string vs array", `{"title":"t","palette":"red","score":1,"notes":{"copies":"x","distressing":"y"}}`},
		{"wrong kind number", `{"title":"t","palette":["a"],"score":"high","notes":{"copies":"x","distressing":"y"}}`},
		{"empty required string", `{"title":"","palette":["a"],"score":1,"notes":{"copies":"x","distressing":"y"}}`},
		{"out of range", `{"title":"t","palette":["a"],"score":140,"notes":{"copies":"x","distressing":"y"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			object, err := ValidateJSON(tt.raw, lookSchema())
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrMalformedOutput))
			assert.Nil(t, object)
		})
	}
}

func TestValidateJSON_NamesMissingKey(t *testing.T) {
	_, err := ValidateJSON(`{"palette":["a"],"score":1,"notes":{"copies":"x","distressing":"y"}}`, lookSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestDecodeValidated_AllOrNothing(t *testing.T) {
	type look struct {
		Title   string   `json:"title"`
		Palette []string `json:"palette"`
	}

	var ok look
	require.NoError(t, DecodeValidated(validLook, lookSchema(), &ok))
	assert.Equal(t, []string{"slate", "oxblood"}, ok.Palette)

	untouched := look{Title: "keep"}
	err := DecodeValidated(`{"title":"new","palette":[]}`, lookSchema(), &untouched)
	require.Error(t, err)
	assert.Equal(t, "keep", untouched.Title)
}

// ==========================
// ValidateInput Tests
// ==========================

func TestValidateInput_ClosedSchema(t *testing.T) {
	schema := JSONSchema{
		Type:     "object",
		Required: []string{"description"},
		Properties: map[string]Property{
			"description": NonEmptyString("garment description"),
			"sizeTier":    {Type: "string", Enum: []string{"1K", "2K", "4K"}},
		},
		AdditionalProperties: false,
	}

	result := ValidateInput(map[string]interface{}{"description": "wool coat", "sizeTier": "2K"}, schema)
	assert.True(t, result.Valid)

	result = ValidateInput(map[string]interface{}{"sizeTier": "8K", "extra": true}, schema)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("description"))
	assert.NotEmpty(t, result.GetErrorsForField("sizeTier"))
	assert.GreaterOrEqual(t, len(result.GetErrorMessages()), 3)
}

func TestSchemaDocument_KeepsClosedFlag(t *testing.T) {
	doc := JSONSchema{Type: "object"}.Document()
	assert.Equal(t, false, doc["additionalProperties"])
}
