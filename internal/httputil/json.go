package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes v with the given status. Encoding failures are logged, not
// surfaced; the status line has already gone out.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// JSONError writes a {"error": msg} body with the given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}
