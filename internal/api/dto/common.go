package dto

import (
	"github.com/google/uuid"
	"github.com/hugh/go-roster/internal/api/validation"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Envelope is the body of every successful request.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func List(data any, count int) Envelope {
	return Envelope{Success: true, Data: data, Count: &count}
}

func Error(message, code string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Code: code}
}

// ValidationError wraps field messages from a Validate method.
func ValidationError(fields map[string]string) ErrorResponse {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return ErrorResponse{Success: false, Message: "Validation failed", Code: "VALIDATION_FAILED", Details: details}
}

func checkID(errors map[string]string, field, value string) {
	if !validation.IsValidUUID(value) {
		errors[field] = field + " must be a valid UUID"
	}
}

func checkIDs(errors map[string]string, field string, values []string) {
	for _, v := range values {
		if !validation.IsValidUUID(v) {
			errors[field] = "every " + field + " entry must be a valid UUID"
			return
		}
	}
}

// Only call after Validate has accepted the values.
func parseIDs(values []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		out = append(out, uuid.MustParse(v))
	}
	return out
}
