// Package httpx holds small HTTP response helpers shared by the handler
// packages.
package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError sends a {"error": msg} body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// WriteValidationErrors sends the full field->message map in one 400 response.
func WriteValidationErrors(w http.ResponseWriter, errs map[string]string) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "Validation failed",
		"fields": errs,
	})
}
