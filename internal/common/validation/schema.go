package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "costume-studio/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema describes the expected shape of a job input or a generated JSON object.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Document renders the schema as a JSON Schema document.
// additionalProperties is always written so that false is not lost to omitempty.
func (s JSONSchema) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"type":                 s.Type,
		"additionalProperties": s.AdditionalProperties,
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.document()
		}
		doc["properties"] = props
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	return doc
}

func (p Property) document() map[string]interface{} {
	doc := map[string]interface{}{}
	if p.Type != "" {
		doc["type"] = p.Type
	}
	if p.Description != "" {
		doc["description"] = p.Description
	}
	if p.Minimum != nil {
		doc["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		doc["maximum"] = *p.Maximum
	}
	if len(p.Enum) > 0 {
		doc["enum"] = p.Enum
	}
	if p.Pattern != nil {
		doc["pattern"] = *p.Pattern
	}
	if p.MinLength != nil {
		doc["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		doc["maxLength"] = *p.MaxLength
	}
	if p.MinItems != nil {
		doc["minItems"] = *p.MinItems
	}
	if p.Items != nil {
		doc["items"] = p.Items.document()
	}
	if len(p.Properties) > 0 {
		props := make(map[string]interface{}, len(p.Properties))
		for name, prop := range p.Properties {
			props[name] = prop.document()
		}
		doc["properties"] = props
	}
	if len(p.Required) > 0 {
		doc["required"] = p.Required
	}
	return doc
}

// ValidateInput validates decoded job variables against schema.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	return validateDocument(input, schema)
}

func validateDocument(document interface{}, schema JSONSchema) *ValidationResult {
	schemaLoader := gojsonschema.NewGoLoader(schema.Document())
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" {
			if missing, ok := desc.Details()["property"].(string); ok {
				field = missing
			}
		} else if missing, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = field + "." + missing
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out
}

// StripCodeFence removes a surrounding markdown code fence such as ```json ... ```.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// ValidateJSON parses raw as exactly one JSON object and checks it against schema.
// Any failure wraps ErrMalformedOutput; nothing is returned on partial success.
func ValidateJSON(raw string, schema JSONSchema) (map[string]interface{}, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", apperrors.ErrMalformedOutput)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", apperrors.ErrMalformedOutput, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after JSON object", apperrors.ErrMalformedOutput)
	}

	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %T", apperrors.ErrMalformedOutput, value)
	}

	result := validateDocument(object, schema)
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMalformedOutput, strings.Join(result.GetErrorMessages(), "; "))
	}
	return object, nil
}

// DecodeValidated validates raw against schema and only then decodes it into out.
func DecodeValidated(raw string, schema JSONSchema, out interface{}) error {
	if _, err := ValidateJSON(raw, schema); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(StripCodeFence(raw))))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", apperrors.ErrMalformedOutput, err)
	}
	return nil
}

// GetSchemaFromJSON parses a schema from its JSON form.
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field and its children
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// IntPtr and FloatPtr build optional schema bounds.
func IntPtr(i int) *int {
	return &i
}

func FloatPtr(f float64) *float64 {
	return &f
}

// NonEmptyString is a required string property with at least one character.
func NonEmptyString(description string) Property {
	return Property{Type: "string", Description: description, MinLength: IntPtr(1)}
}

// NonEmptyStringList is an array of non-empty strings with at least one element.
func NonEmptyStringList(description string) Property {
	item := NonEmptyString("")
	return Property{Type: "array", Description: description, MinItems: IntPtr(1), Items: &item}
}
