package quiz

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type Handler struct {
	service QuizService
	audit   audit.Service
}

func NewHandler(service QuizService, auditService audit.Service) *Handler {
	return &Handler{service: service, audit: auditService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var dto CreateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		config.Error(w, r, fmt.Errorf("%w: invalid request body", apperror.ErrValidation))
		return
	}
	if err := dto.Validate(); err != nil {
		config.Error(w, r, err)
		return
	}

	q, err := h.service.Create(r.Context(), caller.UserID, dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	quizzes, err := h.service.ListMine(r.Context(), caller.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	var dto UpdateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		config.Error(w, r, fmt.Errorf("%w: invalid request body", apperror.ErrValidation))
		return
	}
	if err := dto.Validate(); err != nil {
		config.Error(w, r, err)
		return
	}

	q, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), caller, dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id, caller); err != nil {
		config.Error(w, r, err)
		return
	}

	h.record(r, caller, "quiz.delete", id, nil)
	config.JSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromContext(r)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	q, err := h.service.Publish(r.Context(), id, caller)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	h.record(r, caller, "quiz.publish", id, map[string]interface{}{"title": q.Title})
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) record(r *http.Request, caller Caller, action, targetID string, details map[string]interface{}) {
	if err := h.audit.Log(r.Context(), audit.Entry{
		UserID:     caller.UserID,
		Action:     action,
		TargetType: "quiz",
		TargetID:   targetID,
		Details:    details,
		IP:         r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Audit entry not recorded")
	}
}

func callerFromContext(r *http.Request) (Caller, error) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		return Caller{}, apperror.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Caller{}, apperror.ErrUnauthorized
	}
	return Caller{UserID: id, Role: user.Role(claims.Role)}, nil
}
