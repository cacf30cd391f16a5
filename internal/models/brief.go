package models

import (
	"fmt"
	"strings"
)

// DesignBrief is the caller's request for one costume design.
type DesignBrief struct {
	ProjectType           string `json:"projectType" yaml:"projectType"`
	SceneContext          string `json:"sceneContext" yaml:"sceneContext"`
	CharacterProfile      string `json:"characterProfile" yaml:"characterProfile"`
	PsychologicalState    string `json:"psychologicalState" yaml:"psychologicalState"`
	FilmingLocation       string `json:"filmingLocation" yaml:"filmingLocation"`
	ProductionConstraints string `json:"productionConstraints" yaml:"productionConstraints"`
}

// Validate checks the fields the design conversation cannot do without.
func (b DesignBrief) Validate() error {
	var missing []string
	if strings.TrimSpace(b.ProjectType) == "" {
		missing = append(missing, "projectType")
	}
	if strings.TrimSpace(b.CharacterProfile) == "" {
		missing = append(missing, "characterProfile")
	}
	if strings.TrimSpace(b.FilmingLocation) == "" {
		missing = append(missing, "filmingLocation")
	}
	if len(missing) > 0 {
		return fmt.Errorf("design brief missing %s", strings.Join(missing, ", "))
	}
	return nil
}
