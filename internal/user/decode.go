package user

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/config"
)

type validator interface {
	Validate() error
}

// decode parses and validates a request body, writing the error envelope
// itself when the payload is rejected.
func decode(w http.ResponseWriter, r *http.Request, dto validator) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		config.Error(w, r, fmt.Errorf("%w: invalid request body", apperror.ErrValidation))
		return false
	}
	if err := dto.Validate(); err != nil {
		config.Error(w, r, err)
		return false
	}
	return true
}

func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
