package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/config"
)

type Handler struct {
	service SessionService
}

func NewHandler(service SessionService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	participantID, err := participantFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var dto StartDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.Start(r.Context(), participantID, dto.QuizID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if response.Resumed {
		status = http.StatusOK
	}
	config.JSON(w, status, response)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	participantID, err := participantFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var dto SubmitAnswerDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.SubmitAnswer(r.Context(), participantID, chi.URLParam(r, "id"), dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	participantID, err := participantFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	response, err := h.service.Complete(r.Context(), participantID, chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	participantID, err := participantFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	response, err := h.service.Get(r.Context(), participantID, chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) MyResults(w http.ResponseWriter, r *http.Request) {
	participantID, err := participantFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	results, err := h.service.MyResults(r.Context(), participantID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, results)
}

type validator interface {
	Validate() error
}

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

func participantFromContext(r *http.Request) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return id, nil
}
