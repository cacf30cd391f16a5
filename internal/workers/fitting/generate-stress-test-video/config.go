// internal/workers/fitting/generate-stress-test-video/config.go
package generatestresstestvideo

import (
	"time"

	"costume-studio/internal/common/validation"
	"costume-studio/pkg/registry"
)

type Config struct {
	Timeout     time.Duration
	InputSchema validation.JSONSchema
	// MediaType is assumed when the video download carries no content type.
	MediaType string
}

func LoadConfig(reg *registry.ActivityRegistry) *Config {
	activity := reg.Resolve(TaskType)
	cfg := &Config{
		Timeout:     15 * time.Minute,
		InputSchema: activity.InputSchema,
		MediaType:   "video/mp4",
	}
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
