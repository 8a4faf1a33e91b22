package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes the error envelope with the status derived from the
// code.
func WriteError(w http.ResponseWriter, code, message, param string) {
	WriteJSON(w, HTTPStatusForCode(code), NewErrorResponse(code, message, param))
}
