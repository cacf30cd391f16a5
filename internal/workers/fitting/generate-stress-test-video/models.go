// internal/workers/fitting/generate-stress-test-video/models.go
package generatestresstestvideo

type Input struct {
	ImageKey string `json:"imageKey"`
	Action   string `json:"action"`
}

type Output struct {
	StressTestVideoKey string `json:"stressTestVideoKey"`
}
