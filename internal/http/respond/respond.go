// Package respond writes envelope responses for the API handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arjunks/kharcha/internal/api"
)

func write(w http.ResponseWriter, status int, env *api.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// OK writes a success envelope around data.
func OK(w http.ResponseWriter, status int, message string, data any) {
	env, err := api.OK(message, data)
	if err != nil {
		slog.Error("failed to encode response data", "error", err)
		write(w, http.StatusInternalServerError, api.Fail("internal error"))

		return
	}

	write(w, status, env)
}

// Fail writes a failure envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, api.Fail(message))
}

// FailFields writes a failure envelope with field-level errors.
func FailFields(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	write(w, status, api.FailFields(message, fields))
}
