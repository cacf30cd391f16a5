package gemini

import (
	"fmt"
	"sort"
	"strings"
)

// Stage names a pipeline step that calls a generation backend.
type Stage string

const (
	StageConversation Stage = "conversation"
	StageGrounding    Stage = "grounding"
	StageImage        Stage = "image"
	StageVideo        Stage = "video"
	StageAnalysis     Stage = "analysis"
)

const (
	ProfileQuality = "quality"
	ProfileFast    = "fast"
)

// Capabilities selects the concrete model variant for each stage.
type Capabilities map[Stage]string

var profiles = map[string]Capabilities{
	ProfileQuality: {
		StageConversation: "gemini-3-pro-preview",
		StageGrounding:    "gemini-2.5-flash",
		StageImage:        "gemini-3-pro-image-preview",
		StageVideo:        "veo-3.1-generate-preview",
		StageAnalysis:     "gemini-3-pro-preview",
	},
	ProfileFast: {
		StageConversation: "gemini-2.5-flash",
		StageGrounding:    "gemini-2.5-flash",
		StageImage:        "gemini-2.5-flash-image",
		StageVideo:        "veo-3.1-fast-generate-preview",
		StageAnalysis:     "gemini-2.5-flash",
	},
}

func Stages() []Stage {
	return []Stage{StageConversation, StageGrounding, StageImage, StageVideo, StageAnalysis}
}

// Profiles lists the built-in profile names.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveCapabilities starts from a built-in profile (quality when empty)
// and applies per-stage overrides.
func ResolveCapabilities(profile string, overrides map[string]string) (Capabilities, error) {
	if profile == "" {
		profile = ProfileQuality
	}
	base, ok := profiles[strings.ToLower(profile)]
	if !ok {
		return nil, fmt.Errorf("gemini: unknown profile %q (want one of %s)", profile, strings.Join(Profiles(), ", "))
	}

	caps := make(Capabilities, len(base))
	for stage, model := range base {
		caps[stage] = model
	}

	known := make(map[Stage]bool, len(base))
	for _, s := range Stages() {
		known[s] = true
	}
	for name, model := range overrides {
		stage := Stage(strings.ToLower(name))
		if !known[stage] {
			return nil, fmt.Errorf("gemini: unknown stage %q in model overrides", name)
		}
		if strings.TrimSpace(model) == "" {
			continue
		}
		caps[stage] = model
	}
	return caps, nil
}

func (c Capabilities) Model(stage Stage) string {
	return c[stage]
}
