// Package apierror holds the JSON bodies of every 4xx/5xx answer:
// {"detail": "..."} and, for request validation, a field → tag map.
// Store errors never reach the client; handlers log them and send a generic detail.
package apierror

// APIError is the body of every error response except validation failures.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError is returned with 422; Fields maps the DTO field to the failed validator tag.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
