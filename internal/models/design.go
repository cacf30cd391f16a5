package models

// Breakdown is the fixed-key itemisation of a costume.
type Breakdown struct {
	Basics       string   `json:"basics"`
	Layers       string   `json:"layers"`
	Shoes        string   `json:"shoes"`
	Accessories  string   `json:"accessories"`
	Materials    string   `json:"materials"`
	ColorPalette []string `json:"colorPalette"`
}

// ProductionNotes are the wardrobe department's practical notes.
type ProductionNotes struct {
	Copies             string `json:"copies"`
	Distressing        string `json:"distressing"`
	CameraWarnings     string `json:"cameraWarnings"`
	WeatherAlternative string `json:"weatherAlternative"`
	BudgetAlternative  string `json:"budgetAlternative"`
}

// StructuredDesignResult is a validated design. ConceptArt is nil when the
// concept-art stage degraded.
type StructuredDesignResult struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Breakdown       Breakdown          `json:"breakdown"`
	Rationale       []string           `json:"rationale"`
	ProductionNotes ProductionNotes    `json:"productionNotes"`
	ImagePrompt     string             `json:"imagePrompt"`
	Grounding       GroundingContext   `json:"grounding"`
	ConceptArt      *GeneratedArtifact `json:"conceptArt,omitempty"`
}
