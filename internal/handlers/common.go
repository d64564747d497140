package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"points-feed/internal/apperr"
	"points-feed/internal/posttypes"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Fields []posttypes.FieldError `json:"fields,omitempty"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error onto a status code. Validation
// failures carry their field messages.
func respondServiceError(w http.ResponseWriter, err error) {
	if verr, ok := posttypes.AsValidationError(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: verr.Errors})
		return
	}
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondError(w, message, status)
}

// isServerError reports whether err is unexpected, as opposed to a client
// error the response already explains
func isServerError(err error) bool {
	if _, ok := posttypes.AsValidationError(err); ok {
		return false
	}
	return apperr.HTTPStatus(err) == http.StatusInternalServerError
}

// respondJSON writes v as the JSON body
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// queryInt reads an integer query parameter, falling back to def when it
// is absent or malformed
func queryInt(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}
