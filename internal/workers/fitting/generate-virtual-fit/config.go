// internal/workers/fitting/generate-virtual-fit/config.go
package generatevirtualfit

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
		Timeout:     2 * time.Minute,
		InputSchema: activity.InputSchema,
	}
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}
