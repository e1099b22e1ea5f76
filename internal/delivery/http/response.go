package http

import (
	"encoding/json"
	"net/http"

	"shortlink/pkg/problemdetails"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeProblem writes an RFC 7807 Problem Details response
func writeProblem(w http.ResponseWriter, problem *problemdetails.ProblemDetail) {
	_ = problemdetails.Write(w, problem)
}

func notFound(r *http.Request, detail string) *problemdetails.ProblemDetail {
	return problemdetails.New(
		http.StatusNotFound,
		problemdetails.TypeNotFound,
		"Not Found",
		detail,
	).WithInstance(r.URL.Path)
}

func internalError(r *http.Request) *problemdetails.ProblemDetail {
	return problemdetails.New(
		http.StatusInternalServerError,
		problemdetails.TypeInternalError,
		"Internal Server Error",
		"Internal server error",
	).WithInstance(r.URL.Path)
}
