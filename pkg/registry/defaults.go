// pkg/registry/defaults.go
package registry

import "costume-studio/internal/common/validation"

// Studio task types.
const (
	TaskGenerateDesign          = "generate-design"
	TaskGenerateGarmentAsset    = "generate-garment-asset"
	TaskEditGarmentImage        = "edit-garment-image"
	TaskGenerateVirtualFit      = "generate-virtual-fit"
	TaskAnalyzeFitCompatibility = "analyze-fit-compatibility"
	TaskGenerateStressTestVideo = "generate-stress-test-video"
	TaskTranscribeAudio         = "transcribe-audio"
	TaskAnalyzeVideo            = "analyze-video"
)

const artifactKeyPattern = `^[A-Za-z0-9_-]+:.+$`

func artifactKey(description string) validation.Property {
	pattern := artifactKeyPattern
	return validation.Property{Type: "string", Description: description, Pattern: &pattern}
}

func optionalString(description string) validation.Property {
	return validation.Property{Type: "string", Description: description}
}

// jobInput builds a task input schema. Job variables carry the whole process
// scope, so unknown properties are allowed.
func jobInput(props map[string]validation.Property, required ...string) validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: true,
	}
}

// DefaultRegistry lists every task type the worker manager can serve.
func DefaultRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-03-01",
		Activities: []Activity{
			{
				ID:          TaskGenerateDesign,
				DisplayName: "Generate Costume Design",
				Description: "Grounds the filming location, runs the design conversation and renders concept art",
				Category:    "design",
				Version:     "1.0.0",
				TaskType:    TaskGenerateDesign,
				InputSchema: jobInput(map[string]validation.Property{
					"brief": {
						Type:        "object",
						Description: "Design brief",
						Properties: map[string]validation.Property{
							"projectType":           validation.NonEmptyString("Film, series, stage production"),
							"sceneContext":          optionalString("What happens in the scene"),
							"characterProfile":      validation.NonEmptyString("Who the character is"),
							"psychologicalState":    optionalString("The character's state of mind"),
							"filmingLocation":       validation.NonEmptyString("Where the scene is shot"),
							"productionConstraints": optionalString("Budget, stunts, safety requirements"),
						},
						Required: []string{"projectType", "characterProfile", "filmingLocation"},
					},
				}, "brief"),
				Outputs:    []string{"design", "conceptArtKey"},
				ErrorCodes: []string{"DESIGN_GENERATION_FAILED", "INVALID_INPUT"},
				Timeout:    "3m",
				Tags:       []string{"text", "image", "grounding"},
			},
			{
				ID:          TaskGenerateGarmentAsset,
				DisplayName: "Generate Garment Asset",
				Description: "Renders a standalone garment image on a neutral background",
				Category:    "garment",
				Version:     "1.0.0",
				TaskType:    TaskGenerateGarmentAsset,
				InputSchema: jobInput(map[string]validation.Property{
					"description": validation.NonEmptyString("Garment description"),
					"sizeTier": {
						Type:        "string",
						Description: "Output resolution tier",
						Enum:        []string{"1K", "2K", "4K"},
					},
				}, "description"),
				Outputs:    []string{"garmentImageKey"},
				ErrorCodes: []string{"NO_ARTIFACT_PRODUCED", "TRANSPORT_ERROR", "INVALID_INPUT"},
				Timeout:    "2m",
				Tags:       []string{"image"},
			},
			{
				ID:          TaskEditGarmentImage,
				DisplayName: "Edit Garment Image",
				Description: "Applies a textual edit directive to a stored image",
				Category:    "garment",
				Version:     "1.0.0",
				TaskType:    TaskEditGarmentImage,
				InputSchema: jobInput(map[string]validation.Property{
					"imageKey":  artifactKey("Stored image to edit"),
					"directive": validation.NonEmptyString("Edit instruction"),
				}, "imageKey", "directive"),
				Outputs:    []string{"editedImageKey"},
				ErrorCodes: []string{"NO_ARTIFACT_PRODUCED", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "2m",
				Tags:       []string{"image"},
			},
			{
				ID:          TaskGenerateVirtualFit,
				DisplayName: "Generate Virtual Fit",
				Description: "Composites a garment onto a model photo under simulation settings",
				Category:    "fitting",
				Version:     "1.0.0",
				TaskType:    TaskGenerateVirtualFit,
				InputSchema: jobInput(map[string]validation.Property{
					"modelImageKey":   artifactKey("Stored model photo"),
					"garmentImageKey": artifactKey("Stored garment image"),
					"description":     optionalString("Garment description"),
					"context":         optionalString("Scene context"),
					"simulation": {
						Type:        "object",
						Description: "Physics, lighting, action and actor constraints",
						Properties: map[string]validation.Property{
							"physics":          optionalString("static, flow, heavy or wet"),
							"lighting":         optionalString("natural, studio, dramatic or neon"),
							"action":           optionalString("idle, walking, running or fighting"),
							"actorConstraints": optionalString("Safety constraint that overrides everything else"),
						},
					},
				}, "modelImageKey", "garmentImageKey"),
				Outputs:    []string{"fitImageKey"},
				ErrorCodes: []string{"NO_ARTIFACT_PRODUCED", "INVALID_SIMULATION_CONFIG", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "2m",
				Tags:       []string{"image", "simulation"},
			},
			{
				ID:          TaskAnalyzeFitCompatibility,
				DisplayName: "Analyze Fit Compatibility",
				Description: "Scores a fitted image against the actor's constraints",
				Category:    "fitting",
				Version:     "1.0.0",
				TaskType:    TaskAnalyzeFitCompatibility,
				InputSchema: jobInput(map[string]validation.Property{
					"imageKey":         artifactKey("Stored fitted image"),
					"actorConstraints": optionalString("Actor constraints to check"),
				}, "imageKey"),
				Outputs:    []string{"fitAnalysis"},
				ErrorCodes: []string{"MALFORMED_OUTPUT", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "1m",
				Tags:       []string{"analysis"},
			},
			{
				ID:          TaskGenerateStressTestVideo,
				DisplayName: "Generate Stress Test Video",
				Description: "Animates a fitted image performing an action and stores the clip",
				Category:    "fitting",
				Version:     "1.0.0",
				TaskType:    TaskGenerateStressTestVideo,
				InputSchema: jobInput(map[string]validation.Property{
					"imageKey": artifactKey("Stored seed image"),
					"action":   optionalString("Action label, walking when empty"),
				}, "imageKey"),
				Outputs:    []string{"stressTestVideoKey"},
				ErrorCodes: []string{"VIDEO_GENERATION_FAILED", "POLL_ATTEMPTS_EXHAUSTED", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "15m",
				Tags:       []string{"video"},
			},
			{
				ID:          TaskTranscribeAudio,
				DisplayName: "Transcribe Audio",
				Description: "Transcribes a stored audio note",
				Category:    "media",
				Version:     "1.0.0",
				TaskType:    TaskTranscribeAudio,
				InputSchema: jobInput(map[string]validation.Property{
					"audioKey": artifactKey("Stored audio"),
				}, "audioKey"),
				Outputs:    []string{"transcript"},
				ErrorCodes: []string{"MALFORMED_OUTPUT", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "1m",
				Tags:       []string{"audio", "analysis"},
			},
			{
				ID:          TaskAnalyzeVideo,
				DisplayName: "Analyze Video",
				Description: "Reviews a stored video for costume continuity and movement",
				Category:    "media",
				Version:     "1.0.0",
				TaskType:    TaskAnalyzeVideo,
				InputSchema: jobInput(map[string]validation.Property{
					"videoKey": artifactKey("Stored video"),
				}, "videoKey"),
				Outputs:    []string{"videoAnalysis"},
				ErrorCodes: []string{"MALFORMED_OUTPUT", "TRANSPORT_ERROR", "ARTIFACT_NOT_FOUND"},
				Timeout:    "2m",
				Tags:       []string{"video", "analysis"},
			},
		},
	}
}
