package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Success writes the standard {success:true, ...} envelope. Extra fields
// are merged into the envelope, not nested under a payload key.
func Success(w http.ResponseWriter, extra M) {
	body := M{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	RespondWithJSON(w, http.StatusOK, body)
}

// Fail writes {success:false, message}. Domain failures are always HTTP 200;
// clients branch on the success flag, never on the status code.
func Fail(w http.ResponseWriter, message string) {
	RespondWithJSON(w, http.StatusOK, M{"success": false, "message": message})
}
