// internal/workers/design/generate-design/config.go
package generatedesign

import (
	"time"

	"costume-studio/internal/common/validation"
	"costume-studio/pkg/registry"
)

type Config struct {
	Timeout     time.Duration
	InputSchema validation.JSONSchema
}

func LoadConfig(reg *registry.ActivityRegistry) *Config {
	activity := reg.Resolve(TaskType)
	cfg := &Config{
		Timeout:     3 * time.Minute,
		InputSchema: activity.InputSchema,
	}
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
