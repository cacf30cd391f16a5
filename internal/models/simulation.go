package models

import (
	"fmt"
	"strings"

	apperrors "costume-studio/internal/common/errors"
)

type Physics string

const (
	PhysicsStatic Physics = "static"
	PhysicsFlow   Physics = "flow"
	PhysicsHeavy  Physics = "heavy"
	PhysicsWet    Physics = "wet"
)

type Lighting string

const (
	LightingNatural  Lighting = "natural"
	LightingStudio   Lighting = "studio"
	LightingDramatic Lighting = "dramatic"
	LightingNeon     Lighting = "neon"
)

type Action string

const (
	ActionIdle     Action = "idle"
	ActionWalking  Action = "walking"
	ActionRunning  Action = "running"
	ActionFighting Action = "fighting"
)

var (
	physicsValues  = []Physics{PhysicsStatic, PhysicsFlow, PhysicsHeavy, PhysicsWet}
	lightingValues = []Lighting{LightingNatural, LightingStudio, LightingDramatic, LightingNeon}
	actionValues   = []Action{ActionIdle, ActionWalking, ActionRunning, ActionFighting}
)

// SimulationConfig drives the virtual fit directive. Zero values mean the
// defaults: static, natural, idle.
type SimulationConfig struct {
	Physics          Physics  `json:"physics,omitempty" yaml:"physics"`
	Lighting         Lighting `json:"lighting,omitempty" yaml:"lighting"`
	Action           Action   `json:"action,omitempty" yaml:"action"`
	ActorConstraints string   `json:"actorConstraints,omitempty" yaml:"actorConstraints"`
}

// DefaultSimulationConfig returns the explicit default configuration.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{Physics: PhysicsStatic, Lighting: LightingNatural, Action: ActionIdle}
}

// Normalized fills empty enumerations with their defaults.
func (c SimulationConfig) Normalized() SimulationConfig {
	if c.Physics == "" {
		c.Physics = PhysicsStatic
	}
	if c.Lighting == "" {
		c.Lighting = LightingNatural
	}
	if c.Action == "" {
		c.Action = ActionIdle
	}
	return c
}

// Validate rejects enumerated values outside the known sets.
func (c SimulationConfig) Validate() error {
	n := c.Normalized()
	if _, err := ParsePhysics(string(n.Physics)); err != nil {
		return err
	}
	if _, err := ParseLighting(string(n.Lighting)); err != nil {
		return err
	}
	if _, err := ParseAction(string(n.Action)); err != nil {
		return err
	}
	return nil
}

func ParsePhysics(s string) (Physics, error) {
	if s == "" {
		return PhysicsStatic, nil
	}
	for _, v := range physicsValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", invalidValue("physics", s, physicsValues)
}

func ParseLighting(s string) (Lighting, error) {
	if s == "" {
		return LightingNatural, nil
	}
	for _, v := range lightingValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", invalidValue("lighting", s, lightingValues)
}

func ParseAction(s string) (Action, error) {
	if s == "" {
		return ActionIdle, nil
	}
	for _, v := range actionValues {
		if string(v) == s {
			return v, nil
		}
	}
	return "", invalidValue("action", s, actionValues)
}

func invalidValue[T ~string](field, got string, allowed []T) error {
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	return fmt.Errorf("%w: %s %q is not one of %s", apperrors.ErrInvalidSimulationConfig, field, got, strings.Join(names, ", "))
}
