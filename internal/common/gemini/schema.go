package gemini

import (
	"sort"

	"google.golang.org/genai"

	"costume-studio/internal/common/validation"
)

var schemaTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// ResponseSchema converts a validation shape into the schema used for
// schema-constrained generation, so both sides share one definition.
func ResponseSchema(s validation.JSONSchema) *genai.Schema {
	return &genai.Schema{
		Type:             schemaTypes[s.Type],
		Properties:       convertProperties(s.Properties),
		PropertyOrdering: sortedKeys(s.Properties),
		Required:         s.Required,
	}
}

func convertProperty(p validation.Property) *genai.Schema {
	out := &genai.Schema{
		Type:        schemaTypes[p.Type],
		Description: p.Description,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
		Enum:        p.Enum,
		Required:    p.Required,
	}
	if p.MinLength != nil {
		out.MinLength = genai.Ptr(int64(*p.MinLength))
	}
	if p.MaxLength != nil {
		out.MaxLength = genai.Ptr(int64(*p.MaxLength))
	}
	if p.MinItems != nil {
		out.MinItems = genai.Ptr(int64(*p.MinItems))
	}
	if p.Items != nil {
		out.Items = convertProperty(*p.Items)
	}
	if len(p.Properties) > 0 {
		out.Properties = convertProperties(p.Properties)
		out.PropertyOrdering = sortedKeys(p.Properties)
	}
	return out
}

func convertProperties(props map[string]validation.Property) map[string]*genai.Schema {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]*genai.Schema, len(props))
	for name, prop := range props {
		out[name] = convertProperty(prop)
	}
	return out
}

func sortedKeys(props map[string]validation.Property) []string {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
