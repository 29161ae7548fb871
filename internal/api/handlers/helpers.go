package handlers

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeInvalidJSON     = "INVALID_JSON"
	CodeInvalidField    = "INVALID_FIELD"
	CodeMissingFields   = "MISSING_FIELDS"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "UNAVAILABLE"
)

// maxBodyBytes caps request bodies read by handlers.
const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body of every 4xx/5xx response.
type ErrorResponse struct {
	Success *bool    `json:"success,omitempty"`
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Missing []string `json:"missing,omitempty"`
	Field   string   `json:"field,omitempty"`
	Details string   `json:"details,omitempty"`
}

// writeJSON writes body as JSON with statusCode.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteInternalError writes the 500 body used for unexpected failures.
// details names the failure type, never its message.
func WriteInternalError(w http.ResponseWriter, details string) {
	success := false
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Success: &success,
		Error:   "Internal server error",
		Code:    CodeInternal,
		Details: details,
	})
}
