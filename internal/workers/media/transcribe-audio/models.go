// internal/workers/media/transcribe-audio/models.go
package transcribeaudio

type Input struct {
	AudioKey string `json:"audioKey"`
}

type Output struct {
	Transcript string `json:"transcript"`
}
