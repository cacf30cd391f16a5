// Package errors provides the studio error taxonomy and its mapping onto BPMN workflow errors.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Studio pipeline errors.
const (
	ErrCodeGroundingUnavailable    ErrorCode = "GROUNDING_UNAVAILABLE"
	ErrCodeMalformedOutput         ErrorCode = "MALFORMED_OUTPUT"
	ErrCodeUnexpectedToolCall      ErrorCode = "UNEXPECTED_TOOL_CALL"
	ErrCodeUnknownTool             ErrorCode = "UNKNOWN_TOOL"
	ErrCodeNoArtifactProduced      ErrorCode = "NO_ARTIFACT_PRODUCED"
	ErrCodeVideoGenerationFailed   ErrorCode = "VIDEO_GENERATION_FAILED"
	ErrCodeTransportError          ErrorCode = "TRANSPORT_ERROR"
	ErrCodeDesignGenerationFailed  ErrorCode = "DESIGN_GENERATION_FAILED"
	ErrCodeInvalidSimulationConfig ErrorCode = "INVALID_SIMULATION_CONFIG"
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrCodePollAttemptsExhausted   ErrorCode = "POLL_ATTEMPTS_EXHAUSTED"
)

// Worker infrastructure errors.
const (
	ErrCodeInputParsingFailed   ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeArtifactNotFound     ErrorCode = "ARTIFACT_NOT_FOUND"
	ErrCodeArtifactStoreFailed  ErrorCode = "ARTIFACT_STORE_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeOperationTimeout     ErrorCode = "OPERATION_TIMEOUT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// Sentinel errors. Call sites wrap them with fmt.Errorf("%w: %v", ...) and
// callers match with errors.Is.
var (
	ErrGroundingUnavailable    = stderrors.New(string(ErrCodeGroundingUnavailable))
	ErrMalformedOutput         = stderrors.New(string(ErrCodeMalformedOutput))
	ErrUnexpectedToolCall      = stderrors.New(string(ErrCodeUnexpectedToolCall))
	ErrUnknownTool             = stderrors.New(string(ErrCodeUnknownTool))
	ErrNoArtifactProduced      = stderrors.New(string(ErrCodeNoArtifactProduced))
	ErrVideoGenerationFailed   = stderrors.New(string(ErrCodeVideoGenerationFailed))
	ErrTransport               = stderrors.New(string(ErrCodeTransportError))
	ErrDesignGenerationFailed  = stderrors.New(string(ErrCodeDesignGenerationFailed))
	ErrInvalidSimulationConfig = stderrors.New(string(ErrCodeInvalidSimulationConfig))
	ErrInvalidInput            = stderrors.New(string(ErrCodeInvalidInput))
	ErrPollAttemptsExhausted   = stderrors.New(string(ErrCodePollAttemptsExhausted))
	ErrArtifactNotFound        = stderrors.New(string(ErrCodeArtifactNotFound))
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newStandard(code ErrorCode, message string, err error) *StandardError {
	stdErr := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		stdErr.Details = err.Error()
	}
	return stdErr
}

// NewInputParsingFailedError wraps a job variable decoding failure.
func NewInputParsingFailedError(err error) *StandardError {
	return newStandard(ErrCodeInputParsingFailed, "Failed to parse job variables", err)
}

// NewValidationFailedError reports job input that violates the task schema.
func NewValidationFailedError(details string) *StandardError {
	stdErr := newStandard(ErrCodeValidationFailed, "Input validation failed", nil)
	stdErr.Details = details
	return stdErr
}

// NewArtifactStoreFailedError is returned when the hand-off store is unreachable.
func NewArtifactStoreFailedError(err error) *StandardError {
	stdErr := newStandard(ErrCodeArtifactStoreFailed, "Artifact store operation failed", err)
	stdErr.Retryable = true
	return stdErr
}

// NewDatabaseInsertFailedError creates a run ledger insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	stdErr := newStandard(ErrCodeDatabaseInsertFailed, "Database insert failed", err)
	stdErr.Retryable = true
	return stdErr
}

// ==========================
// 4. Classification
// ==========================

type classification struct {
	sentinel error
	code     ErrorCode
	message  string
}

// classifications is ordered: the outermost operation-level failure wins,
// the remaining matches are reported as causes.
var classifications = []classification{
	{ErrDesignGenerationFailed, ErrCodeDesignGenerationFailed, "Design generation failed"},
	{ErrMalformedOutput, ErrCodeMalformedOutput, "Generated output did not match the expected shape"},
	{ErrUnexpectedToolCall, ErrCodeUnexpectedToolCall, "Model requested a second tool round trip"},
	{ErrUnknownTool, ErrCodeUnknownTool, "Model requested an unregistered tool"},
	{ErrNoArtifactProduced, ErrCodeNoArtifactProduced, "No artifact was produced"},
	{ErrVideoGenerationFailed, ErrCodeVideoGenerationFailed, "Video generation finished without a result"},
	{ErrPollAttemptsExhausted, ErrCodePollAttemptsExhausted, "Video job did not finish within the polling budget"},
	{ErrInvalidSimulationConfig, ErrCodeInvalidSimulationConfig, "Invalid simulation configuration"},
	{ErrInvalidInput, ErrCodeInvalidInput, "Invalid input"},
	{ErrArtifactNotFound, ErrCodeArtifactNotFound, "Referenced artifact not found"},
	{ErrGroundingUnavailable, ErrCodeGroundingUnavailable, "Grounding unavailable"},
	{ErrTransport, ErrCodeTransportError, "Generative service call failed"},
}

// Classify normalizes any error into a StandardError carrying a taxonomy code.
func Classify(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var matched *classification
	var causes []string
	for i := range classifications {
		c := &classifications[i]
		if !stderrors.Is(err, c.sentinel) {
			continue
		}
		if matched == nil {
			matched = c
			continue
		}
		causes = append(causes, string(c.code))
	}

	switch {
	case matched != nil:
		classified := newStandard(matched.code, matched.message, err)
		if len(causes) > 0 {
			classified.Metadata = map[string]interface{}{"causes": causes}
		}
		return classified
	case stderrors.Is(err, context.DeadlineExceeded):
		return newStandard(ErrCodeOperationTimeout, "Operation timed out", err)
	default:
		return newStandard(ErrCodeInternal, "Unexpected error", err)
	}
}

// CodeOf returns the taxonomy code of err.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Classify(err).Code
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes used in process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMalformedOutput:         "MALFORMED_OUTPUT",
	ErrCodeUnexpectedToolCall:      "UNEXPECTED_TOOL_CALL",
	ErrCodeUnknownTool:             "UNKNOWN_TOOL",
	ErrCodeNoArtifactProduced:      "NO_ARTIFACT_PRODUCED",
	ErrCodeVideoGenerationFailed:   "VIDEO_GENERATION_FAILED",
	ErrCodeTransportError:          "TRANSPORT_ERROR",
	ErrCodeDesignGenerationFailed:  "DESIGN_GENERATION_FAILED",
	ErrCodeInvalidSimulationConfig: "INVALID_SIMULATION_CONFIG",
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodePollAttemptsExhausted:   "POLL_ATTEMPTS_EXHAUSTED",
	ErrCodeInputParsingFailed:      "INVALID_INPUT",
	ErrCodeValidationFailed:        "INVALID_INPUT",
	ErrCodeArtifactNotFound:        "ARTIFACT_NOT_FOUND",
}

// GetRetryCount returns the engine-side retry budget for an error code.
// Generation stages are never retried automatically; only infrastructure
// failures around them get a retry from the workflow engine.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeArtifactStoreFailed, ErrCodeDatabaseInsertFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if causes, ok := stdErr.Metadata["causes"]; ok {
		vars["errorCauses"] = causes
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 6. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TOOL") || strings.Contains(codeStr, "OUTPUT") || strings.Contains(codeStr, "DESIGN"):
		return "SYNTHESIS"
	case strings.Contains(codeStr, "ARTIFACT") || strings.Contains(codeStr, "VIDEO") || strings.Contains(codeStr, "POLL"):
		return "ARTIFACT"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "GROUNDING") || strings.Contains(codeStr, "TIMEOUT"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
