package pipeline

import (
	"fmt"
	"strings"

	"costume-studio/internal/common/config"
	"costume-studio/internal/studio/artifact"
	"costume-studio/internal/studio/synthesis"
)

// Policy decides what a stage failure does to the operation.
type Policy string

const (
	// Fatal aborts the operation.
	Fatal Policy = "fatal"
	// BestEffort logs, counts the degradation and continues with a fallback.
	BestEffort Policy = "best_effort"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BestEffort:
		return BestEffort, nil
	case Fatal:
		return Fatal, nil
	default:
		return "", fmt.Errorf("unknown stage policy %q (want fatal or best_effort)", s)
	}
}

// Policies is the per-stage failure table. Stages not listed here are
// always fatal.
type Policies struct {
	Grounding  Policy
	ConceptArt Policy
}

func DefaultPolicies() Policies {
	return Policies{Grounding: BestEffort, ConceptArt: BestEffort}
}

type Settings struct {
	Policies         Policies
	SkipGrounding    bool
	ConceptArtSize   artifact.SizeTier
	VideoResolution  string
	VideoAspectRatio string
	VideoCount       int
}

func DefaultSettings() Settings {
	return Settings{
		Policies:         DefaultPolicies(),
		ConceptArtSize:   artifact.Size1K,
		VideoResolution:  "720p",
		VideoAspectRatio: "9:16",
		VideoCount:       1,
	}
}

// SettingsFromConfig translates the pipeline config section.
func SettingsFromConfig(c config.PipelineConfig) (Settings, error) {
	s := DefaultSettings()
	var err error
	if s.Policies.Grounding, err = ParsePolicy(c.GroundingPolicy); err != nil {
		return Settings{}, fmt.Errorf("grounding: %w", err)
	}
	if s.Policies.ConceptArt, err = ParsePolicy(c.ConceptArtPolicy); err != nil {
		return Settings{}, fmt.Errorf("concept art: %w", err)
	}
	if s.ConceptArtSize, err = artifact.ParseSizeTier(c.ConceptArtSizeTier); err != nil {
		return Settings{}, err
	}
	s.SkipGrounding = c.SkipGrounding
	if c.VideoResolution != "" {
		s.VideoResolution = c.VideoResolution
	}
	if c.VideoAspectRatio != "" {
		s.VideoAspectRatio = c.VideoAspectRatio
	}
	if c.VideoCount > 0 {
		s.VideoCount = c.VideoCount
	}
	return s, nil
}

// ConfigOptions builds the New options for a pipeline config section.
func ConfigOptions(c config.PipelineConfig) ([]Option, error) {
	settings, err := SettingsFromConfig(c)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithSettings(settings),
		WithArtifactOptions(
			artifact.WithPollInterval(config.GetDuration(c.PollInterval)),
			artifact.WithMaxAttempts(c.PollMaxAttempts),
		),
		WithSynthesisOptions(synthesis.WithTemperature(c.ConversationTemp)),
	}, nil
}
