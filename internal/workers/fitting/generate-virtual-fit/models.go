// internal/workers/fitting/generate-virtual-fit/models.go
package generatevirtualfit

import "costume-studio/internal/models"

type Input struct {
	ModelImageKey   string                   `json:"modelImageKey"`
	GarmentImageKey string                   `json:"garmentImageKey"`
	Description     string                   `json:"description"`
	Context         string                   `json:"context"`
	Simulation      *models.SimulationConfig `json:"simulation"`
}

type Output struct {
	FitImageKey string `json:"fitImageKey"`
}
