// Package middleware holds the HTTP middleware chain of the in-memory backend used by tests
package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes a {success:false} envelope with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    false,
		"statusCode": status,
		"message":    message,
	})
}
