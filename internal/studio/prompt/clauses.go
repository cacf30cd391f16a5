// Package prompt composes the directive text sent to every generation stage.
// All functions are pure: identical input yields byte-identical output.
package prompt

import (
	"strings"

	"costume-studio/internal/models"
)

const (
	environmentPrefix = "ENVIRONMENT: "
	safetyPrefix      = "HIGH PRIORITY SAFETY CONSTRAINT: "
	safetySuffix      = " This overrides every other instruction."
)

// Default values (static, natural, idle) have no entry and add no clause.
var physicsClauses = map[models.Physics]string{
	models.PhysicsFlow:  "Fabric physics: show dynamic movement, the fabric flows and swings with the body's momentum.",
	models.PhysicsHeavy: "Fabric physics: the material is weighty and hangs heavily, minimal folds, resisting the wind.",
	models.PhysicsWet:   "Fabric physics: the fabric must appear damp, darker, clinging to the body with a subtle sheen.",
}

var lightingClauses = map[models.Lighting]string{
	models.LightingStudio:   "Lighting: clean studio setup with a soft key light and even fill, true-to-life colour.",
	models.LightingDramatic: "Lighting: dramatic low-key chiaroscuro with hard shadows and strong contrast.",
	models.LightingNeon:     "Lighting: night scene lit by neon signage, saturated magenta and cyan reflections on the fabric.",
}

var actionClauses = map[models.Action]string{
	models.ActionWalking:  "Pose: the actor is mid-stride, walking naturally toward camera.",
	models.ActionRunning:  "Pose: the actor is running, the costume reacting to fast motion.",
	models.ActionFighting: "Pose: the actor holds a dynamic combat stance that stretches the costume's range of motion.",
}

// Clauses returns the ordered directive clauses for cfg: physics, lighting,
// action, then the safety clause. Unknown values are rejected.
func Clauses(cfg models.SimulationConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Normalized()

	var out []string
	if c, ok := physicsClauses[cfg.Physics]; ok {
		out = append(out, c)
	}
	if c, ok := lightingClauses[cfg.Lighting]; ok {
		out = append(out, c)
	}
	if c, ok := actionClauses[cfg.Action]; ok {
		out = append(out, c)
	}
	if constraint := strings.TrimSpace(cfg.ActorConstraints); constraint != "" {
		out = append(out, safetyPrefix+cfg.ActorConstraints+safetySuffix)
	}
	return out, nil
}

// Compose prepends the environment block to base and appends the clauses of
// cfg. A nil cfg adds no clauses.
func Compose(base, context string, cfg *models.SimulationConfig) (string, error) {
	var blocks []string
	if ctx := strings.TrimSpace(context); ctx != "" {
		blocks = append(blocks, environmentPrefix+ctx)
	}
	blocks = append(blocks, strings.TrimSpace(base))

	if cfg != nil {
		clauses, err := Clauses(*cfg)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, clauses...)
	}
	return strings.Join(blocks, "\n"), nil
}
