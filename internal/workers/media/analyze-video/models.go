// internal/workers/media/analyze-video/models.go
package analyzevideo

type Input struct {
	VideoKey string `json:"videoKey"`
}

type Output struct {
	VideoAnalysis string `json:"videoAnalysis"`
}
