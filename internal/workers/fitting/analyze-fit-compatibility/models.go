// internal/workers/fitting/analyze-fit-compatibility/models.go
package analyzefitcompatibility

import "costume-studio/internal/models"

type Input struct {
	ImageKey         string `json:"imageKey"`
	ActorConstraints string `json:"actorConstraints"`
}

type Output struct {
	FitAnalysis *models.FitAnalysisResult `json:"fitAnalysis"`
}
