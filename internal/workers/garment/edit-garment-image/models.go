// internal/workers/garment/edit-garment-image/models.go
package editgarmentimage

type Input struct {
	ImageKey  string `json:"imageKey"`
	Directive string `json:"directive"`
}

type Output struct {
	EditedImageKey string `json:"editedImageKey"`
}
