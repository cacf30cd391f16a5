package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"costume-studio/internal/models"
)

// DesignSystemDirective scopes the design conversation.
const DesignSystemDirective = `You are a senior costume designer for film, television and music video productions.
Design one costume for the character in the brief.
Constraints:
- Every choice must serve the character's psychology and the scene.
- Respect the production constraints, including budget and stunt requirements.
- Account for the real conditions at the filming location.
- Write in English.
Output policy: reply with a single JSON object that matches the response schema exactly. No markdown, no commentary.`

const (
	TranscriptionDirective = "Transcribe the spoken content of this audio verbatim. Return only the transcript text, without timestamps or speaker labels."
	VideoAnalysisDirective = "Analyze this footage as a costume supervisor. Describe each visible costume, how the fabric behaves in motion, continuity problems between shots, and anything that would read poorly on camera. Answer in plain text."
)

// GroundingQuestion asks the search-grounded stage for current conditions.
func GroundingQuestion(location string) string {
	return fmt.Sprintf("What are the current approximate weather conditions in %s? Give the temperature in Fahrenheit and a short description of the conditions (sky, precipitation, wind). Be brief.", strings.TrimSpace(location))
}

// DesignUserTurn renders the brief, the grounding summary and the steps the
// model must follow.
func DesignUserTurn(brief models.DesignBrief, grounding models.GroundingContext) string {
	var b strings.Builder
	b.WriteString("DESIGN BRIEF\n")
	writeField(&b, "Project type", brief.ProjectType)
	writeField(&b, "Scene context", brief.SceneContext)
	writeField(&b, "Character profile", brief.CharacterProfile)
	writeField(&b, "Psychological state", brief.PsychologicalState)
	writeField(&b, "Filming location", brief.FilmingLocation)
	writeField(&b, "Production constraints", brief.ProductionConstraints)

	b.WriteString("\nLOCATION CONDITIONS\n")
	if grounding.Live && strings.TrimSpace(grounding.Summary) != "" {
		b.WriteString(strings.TrimSpace(grounding.Summary))
		b.WriteString("\n")
	} else {
		b.WriteString("Live conditions are unavailable. Call get_location_conditions for the filming location if the design depends on them.\n")
	}

	b.WriteString("\nSTEPS\n")
	b.WriteString("1. Resolve the weather at the filming location into weather.temperature (Fahrenheit) and weather.condition.\n")
	b.WriteString("2. Build the costume breakdown: basics, layers, shoes, accessories, materials and a colour palette.\n")
	b.WriteString("3. Explain the design in an ordered list of rationale statements.\n")
	b.WriteString("4. Write production notes: copies needed, distressing, camera warnings, a weather alternative and a budget alternative.\n")
	b.WriteString("5. Write imagePrompt: one paragraph describing a full-body concept illustration of the costume.\n")
	return b.String()
}

// ConceptArtDirective turns the validated image prompt into a concept art request.
func ConceptArtDirective(imagePrompt string, grounding models.GroundingContext) string {
	return fmt.Sprintf("Costume concept art, full body, fashion illustration style on a neutral background. %s Conditions at the location: %s, %s F.",
		strings.TrimSpace(imagePrompt), grounding.Condition, strconv.FormatFloat(grounding.Temperature, 'f', -1, 64))
}

// GarmentAssetDirective describes an isolated product shot of one garment.
func GarmentAssetDirective(description string) string {
	return fmt.Sprintf("Professional product photograph of a single costume garment: %s. Ghost mannequin presentation on a plain white background, no person, even softbox lighting, sharp fabric texture, whole garment in frame.",
		strings.TrimSpace(description))
}

// EditDirective wraps a free-text edit so the rest of the image is preserved.
func EditDirective(directive string) string {
	return fmt.Sprintf("Edit the garment in this image: %s. Keep the framing, background and every other detail unchanged.", strings.TrimSpace(directive))
}

// VirtualFitDirective composes the fitting request for a model image
// (first reference) and a garment image (second reference).
func VirtualFitDirective(description, context string, cfg *models.SimulationConfig) (string, error) {
	base := fmt.Sprintf("Dress the person in the first image in the garment from the second image. Garment: %s. Preserve the person's face, identity, body shape and skin tone. The garment must fit naturally with correct drape, seams and scale. Photorealistic, full body.",
		strings.TrimSpace(description))
	return Compose(base, context, cfg)
}

// StressTestDirective asks for a short clip of the fitted costume in motion.
func StressTestDirective(action string) string {
	action = strings.TrimSpace(action)
	if action == "" {
		action = string(models.ActionWalking)
	}
	return fmt.Sprintf("Cinematic costume stress test. The actor in the image performs: %s. Show how the fabric moves, stretches and settles. Keep the costume identical to the reference. Static camera, full body in frame.", action)
}

// FitAnalysisDirective asks for the compatibility report of a fitted look.
func FitAnalysisDirective(constraints string) string {
	var b strings.Builder
	b.WriteString("Assess this fitted costume for production use. Score its compatibility from 0 to 100, list every safety issue for the performer, note fabric behaviour and predict how it moves during action.")
	if c := strings.TrimSpace(constraints); c != "" {
		b.WriteString("\nPerformer constraints: ")
		b.WriteString(c)
	}
	b.WriteString("\nReply with a single JSON object: compatibilityScore, safetyIssues, fabricNotes, movementPrediction.")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "not specified"
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
