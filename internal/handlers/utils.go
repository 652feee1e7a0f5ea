package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// maxRequestBody bounds JSON command bodies.
const maxRequestBody = 64 * 1024

// writeJSON writes v as a JSON response with the given status. Encoding
// failures can only be logged once the header is out.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes {"error": message} with the given status.
func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeJSONStatus writes {"status": status} with the given code.
func writeJSONStatus(w http.ResponseWriter, code int, status string) {
	writeJSON(w, code, map[string]string{"status": status})
}

// decodeJSON reads a JSON request body into v, writing a 400 response and
// returning false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
