package config

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Error renders any service error as the uniform error envelope. Internal
// errors are logged with their cause but answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.Status(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		WithContext(r.Context()).WithError(err).Error("Unhandled service error")
		message = "internal server error"
	}

	JSON(w, status, ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
		Error:      http.StatusText(status),
		Message:    message,
	})
}
