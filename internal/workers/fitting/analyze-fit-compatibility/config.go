// internal/workers/fitting/analyze-fit-compatibility/config.go
package analyzefitcompatibility

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
		Timeout:     time.Minute,
		InputSchema: activity.InputSchema,
	}
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
