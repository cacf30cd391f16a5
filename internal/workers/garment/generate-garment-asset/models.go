// internal/workers/garment/generate-garment-asset/models.go
package generategarmentasset

type Input struct {
	Description string `json:"description"`
	SizeTier    string `json:"sizeTier"`
}

type Output struct {
	GarmentImageKey string `json:"garmentImageKey"`
}
