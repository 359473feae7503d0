package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body shape shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	write(w, r, status, Envelope{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string, errs any) {
	write(w, r, status, Envelope{Success: false, Message: message, Errors: errs})
}

func write(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.WarnContext(r.Context(), "write response body", "status", status, "error", err)
	}
}
