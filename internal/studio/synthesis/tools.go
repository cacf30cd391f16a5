package synthesis

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/models"
)

// Tool is a local capability the design conversation may call.
type Tool interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ToolRegistry resolves function calls by name. It is read-only once built.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

func NewToolRegistry(tools ...Tool) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Declaration().Name
		if _, dup := r.tools[name]; !dup {
			r.order = append(r.order, name)
		}
		r.tools[name] = t
	}
	return r
}

// DefaultTools registers the location conditions lookup.
func DefaultTools() *ToolRegistry {
	return NewToolRegistry(LocationConditions{})
}

func (r *ToolRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *ToolRegistry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].Declaration())
	}
	return decls
}

// Resolve executes every call and returns the function response parts keyed
// by the original call IDs. An unregistered name fails the whole batch.
func (r *ToolRegistry) Resolve(ctx context.Context, calls []*genai.FunctionCall) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		tool, ok := r.tools[call.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (registered: %s)", apperrors.ErrUnknownTool, call.Name, strings.Join(r.Names(), ", "))
		}
		result, err := tool.Call(ctx, call.Args)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", call.Name, err)
		}
		parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: result,
		}})
	}
	return parts, nil
}

const LocationConditionsTool = "get_location_conditions"

type seasonalNormal struct {
	temperature float64
	condition   string
}

var seasonalNormals = map[string]seasonalNormal{
	"london":      {54, "overcast with light drizzle"},
	"new york":    {57, "partly cloudy, breezy"},
	"los angeles": {66, "sunny and dry"},
	"atlanta":     {64, "humid, scattered clouds"},
	"vancouver":   {52, "steady rain"},
	"toronto":     {48, "cool and cloudy"},
	"reykjavik":   {40, "windy and cold, passing showers"},
	"budapest":    {53, "mild, mostly cloudy"},
	"prague":      {49, "cool, light overcast"},
	"dubai":       {90, "hot and dry, hazy sun"},
	"mumbai":      {82, "hot and humid"},
	"tokyo":       {61, "mild, partly sunny"},
	"sydney":      {66, "sunny with sea breeze"},
	"cape town":   {63, "clear, strong wind"},
	"mexico city": {63, "mild, afternoon showers"},
	"wellington":  {57, "windy, changeable"},
	"marrakech":   {73, "dry heat, clear sky"},
	"albuquerque": {58, "dry, clear high desert"},
	"belfast":     {50, "grey with frequent showers"},
	"glasgow":     {49, "damp and overcast"},
}

// LocationConditions returns seasonal normals for well-known filming
// locations and the default conditions for anything else.
type LocationConditions struct{}

func (LocationConditions) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        LocationConditionsTool,
		Description: "Fetch typical current weather conditions (temperature in Fahrenheit and a short description) for a filming location.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"location": {Type: genai.TypeString, Description: "City or region, e.g. \"London\"."},
			},
			Required: []string{"location"},
		},
	}
}

func (LocationConditions) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	location, _ := args["location"].(string)
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location argument is required", apperrors.ErrInvalidInput)
	}

	city, _, _ := strings.Cut(strings.ToLower(location), ",")
	normal, ok := seasonalNormals[strings.TrimSpace(city)]
	if !ok {
		return map[string]any{
			"location":    location,
			"temperature": float64(models.DefaultTemperature),
			"condition":   models.DefaultCondition,
			"source":      "default",
		}, nil
	}
	return map[string]any{
		"location":    location,
		"temperature": normal.temperature,
		"condition":   normal.condition,
		"source":      "seasonal normals",
	}, nil
}
