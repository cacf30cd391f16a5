package models

// FitAnalysisResult is the validated compatibility report for a fitted look.
type FitAnalysisResult struct {
	CompatibilityScore float64  `json:"compatibilityScore"`
	SafetyIssues       []string `json:"safetyIssues"`
	FabricNotes        string   `json:"fabricNotes"`
	MovementPrediction string   `json:"movementPrediction"`
}
