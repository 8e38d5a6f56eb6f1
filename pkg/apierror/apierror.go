package apierror

import "fmt"

// InvalidField describes a single field-level validation failure.
type InvalidField struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIError struct {
	Code          string         `json:"code"`
	Message       string         `json:"message"`
	Details       string         `json:"details,omitempty"`
	InvalidFields []InvalidField `json:"invalid_fields,omitempty"`
	HTTPStatus    int            `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// NewValidation builds a VALIDATION_ERROR carrying per-field messages.
func NewValidation(message string, fields []InvalidField) *APIError {
	return &APIError{
		Code:          "VALIDATION_ERROR",
		Message:       message,
		InvalidFields: fields,
		HTTPStatus:    400,
	}
}
