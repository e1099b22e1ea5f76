// Package problemdetails renders RFC 7807 problem responses.
package problemdetails

import (
	"encoding/json"
	"net/http"
)

const (
	TypeInvalidURL          = "invalid-url"
	TypeInvalidRequest      = "invalid-request"
	TypeNotFound            = "not-found"
	TypeRateLimitExceeded   = "rate-limit-exceeded"
	TypeAllocationExhausted = "allocation-exhausted"
	TypeInternalError       = "internal-error"
	TypeValidationError     = "validation-error"
)

// ContentType is the media type of a problem response.
const ContentType = "application/problem+json"

const typeBaseURL = "https://shortlink.dev/problems/"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ProblemDetail struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

func New(status int, problemType, title, detail string) *ProblemDetail {
	return &ProblemDetail{
		Type:   typeBaseURL + problemType,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func NewValidation(errors []FieldError) *ProblemDetail {
	return &ProblemDetail{
		Type:   typeBaseURL + TypeValidationError,
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: "Request validation failed",
		Errors: errors,
	}
}

// WithInstance sets the request path the problem occurred on.
func (p *ProblemDetail) WithInstance(instance string) *ProblemDetail {
	p.Instance = instance
	return p
}

// Write encodes p as the response body with its status code.
func Write(w http.ResponseWriter, p *ProblemDetail) error {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}
