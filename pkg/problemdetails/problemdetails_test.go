package problemdetails

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New(http.StatusNotFound, TypeNotFound, "Not Found", "link not found: abc123")

	assert.Equal(t, "https://shortlink.dev/problems/not-found", p.Type)
	assert.Equal(t, http.StatusNotFound, p.Status)
	assert.Equal(t, "link not found: abc123", p.Detail)
}

func TestNewValidation(t *testing.T) {
	p := NewValidation([]FieldError{{Field: "url", Message: "is required"}})

	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Contains(t, p.Type, TypeValidationError)
	assert.Len(t, p.Errors, 1)
}

func TestWrite(t *testing.T) {
	rr := httptest.NewRecorder()

	err := Write(rr, New(http.StatusTooManyRequests, TypeRateLimitExceeded, "Rate Limit Exceeded", "slow down").WithInstance("/api/v1/links"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, ContentType, rr.Header().Get("Content-Type"))

	var decoded ProblemDetail
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&decoded))
	assert.Equal(t, "/api/v1/links", decoded.Instance)
	assert.Equal(t, "slow down", decoded.Detail)
	assert.Empty(t, decoded.Errors)
}
