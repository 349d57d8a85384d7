package respond

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// JSON writes a successful response carrying data.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Message writes a successful response that only carries a message.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: true, Message: message})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// Invalid writes a 400 listing every field that failed validation.
func Invalid(w http.ResponseWriter, errs []FieldError) {
	write(w, http.StatusBadRequest, Envelope{Success: false, Errors: errs})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("respond: encode payload failed")
	}
}
