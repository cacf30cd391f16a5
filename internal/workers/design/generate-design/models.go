// internal/workers/design/generate-design/models.go
package generatedesign

import "costume-studio/internal/models"

type Input struct {
	Brief models.DesignBrief `json:"brief"`
}

// Output carries the design without its concept art bytes; the image is
// handed over through the artifact store.
type Output struct {
	Design        *models.StructuredDesignResult `json:"design"`
	ConceptArtKey string                         `json:"conceptArtKey,omitempty"`
}
