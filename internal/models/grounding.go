package models

const (
	DefaultTemperature = 72
	DefaultCondition   = "default/sunny"
)

// GroundingContext carries real-world conditions for the filming location.
// Summary is the raw search-grounded answer; Live is false when the
// defaults were used.
type GroundingContext struct {
	Temperature float64  `json:"temperature"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Sources     []string `json:"sources"`
	Summary     string   `json:"summary,omitempty"`
	Live        bool     `json:"live"`
}

// DefaultGroundingContext is what every stage sees when grounding is unavailable.
func DefaultGroundingContext(location string) GroundingContext {
	return GroundingContext{
		Temperature: DefaultTemperature,
		Condition:   DefaultCondition,
		Location:    location,
		Sources:     []string{},
	}
}

// IsDefault reports whether g carries the fallback conditions.
func (g GroundingContext) IsDefault() bool {
	return !g.Live && g.Temperature == DefaultTemperature && g.Condition == DefaultCondition && len(g.Sources) == 0
}
