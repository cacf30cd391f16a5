package synthesis

import (
	"costume-studio/internal/common/validation"
	"costume-studio/internal/models"
)

// DesignShape is the closed object the design conversation must return.
var DesignShape = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":       validation.NonEmptyString("Short name for the costume"),
		"description": validation.NonEmptyString("Narrative description of the look"),
		"breakdown": {
			Type: "object",
			Properties: map[string]validation.Property{
				"basics":       validation.NonEmptyString("Base garments"),
				"layers":       validation.NonEmptyString("Outer and mid layers"),
				"shoes":        validation.NonEmptyString("Footwear"),
				"accessories":  validation.NonEmptyString("Accessories and props worn"),
				"materials":    validation.NonEmptyString("Fabrics and materials"),
				"colorPalette": validation.NonEmptyStringList("Colour palette, most dominant first"),
			},
			Required: []string{"basics", "layers", "shoes", "accessories", "materials", "colorPalette"},
		},
		"rationale": validation.NonEmptyStringList("Ordered design rationale statements"),
		"productionNotes": {
			Type: "object",
			Properties: map[string]validation.Property{
				"copies":             validation.NonEmptyString("Number of copies and why"),
				"distressing":        validation.NonEmptyString("Ageing and distressing plan"),
				"cameraWarnings":     validation.NonEmptyString("Patterns or colours that read poorly on camera"),
				"weatherAlternative": validation.NonEmptyString("Alternative for bad weather"),
				"budgetAlternative":  validation.NonEmptyString("Lower cost alternative"),
			},
			Required: []string{"copies", "distressing", "cameraWarnings", "weatherAlternative", "budgetAlternative"},
		},
		"imagePrompt": validation.NonEmptyString("Concept illustration prompt"),
		"weather": {
			Type: "object",
			Properties: map[string]validation.Property{
				"temperature": {Type: "number", Description: "Temperature in Fahrenheit"},
				"condition":   validation.NonEmptyString("Short description of the conditions"),
			},
			Required: []string{"temperature", "condition"},
		},
	},
	Required: []string{"title", "description", "breakdown", "rationale", "productionNotes", "imagePrompt", "weather"},
}

type weather struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

// designOutput mirrors DesignShape.
type designOutput struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Breakdown       models.Breakdown       `json:"breakdown"`
	Rationale       []string               `json:"rationale"`
	ProductionNotes models.ProductionNotes `json:"productionNotes"`
	ImagePrompt     string                 `json:"imagePrompt"`
	Weather         weather                `json:"weather"`
}
