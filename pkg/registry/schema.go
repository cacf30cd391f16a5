// pkg/registry/schema.go
package registry

import "costume-studio/internal/common/validation"

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one studio task type as a BPMN service task sees it.
type Activity struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"displayName"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Version     string                `json:"version"`
	TaskType    string                `json:"taskType"`
	InputSchema validation.JSONSchema `json:"inputSchema"`
	Outputs     []string              `json:"outputs"`
	ErrorCodes  []string              `json:"errorCodes"`
	Timeout     string                `json:"timeout"`
	Tags        []string              `json:"tags"`
}
