package question

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
	"github.com/iqnite-app/iqnite-api/internal/quiz"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type Handler struct {
	service QuestionService
	audit   audit.Service
}

func NewHandler(service QuestionService, auditService audit.Service) *Handler {
	return &Handler{service: service, audit: auditService}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto CreateQuestionDTO
	if !h.decode(w, r, &dto) {
		return
	}

	q, err := h.service.Create(r.Context(), *caller, dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto BulkCreateDTO
	if !h.decode(w, r, &dto) {
		return
	}

	questions, err := h.service.BulkCreate(r.Context(), *caller, dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.audit.Log(r.Context(), audit.Entry{
		UserID:     caller.UserID,
		Action:     "question.bulk_create",
		TargetType: "quiz",
		TargetID:   dto.QuizID,
		Details:    map[string]interface{}{"count": len(questions)},
		IP:         r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Audit entry not recorded")
	}

	config.JSON(w, http.StatusCreated, questions)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	q, err := h.service.Get(r.Context(), *caller, chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) ListByQuiz(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		config.Error(w, r, fmt.Errorf("%w: quizId query parameter required", apperror.ErrValidation))
		return
	}

	questions, err := h.service.ListByQuiz(r.Context(), *caller, quizID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, questions)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto UpdateQuestionDTO
	if !h.decode(w, r, &dto) {
		return
	}

	q, err := h.service.Update(r.Context(), *caller, chi.URLParam(r, "id"), dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	if err := h.service.Remove(r.Context(), *caller, chi.URLParam(r, "id")); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "question removed"})
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto UploadImageDTO
	if !h.decode(w, r, &dto) {
		return
	}

	q, err := h.service.UploadImage(r.Context(), *caller, chi.URLParam(r, "id"), dto.Data)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"data": data})
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r)
	if caller == nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteImage(r.Context(), *caller, chi.URLParam(r, "id")); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "image removed"})
}

type validator interface {
	Validate() error
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dto validator) bool {
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

func callerFromContext(r *http.Request) *quiz.Caller {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &quiz.Caller{UserID: id, Role: user.Role(claims.Role)}
}
