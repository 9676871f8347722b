package user

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/config"
)

type Handler struct {
	service UserService
	audit   audit.Service
}

func NewHandler(service UserService, auditService audit.Service) *Handler {
	return &Handler{service: service, audit: auditService}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.Register(r.Context(), dto)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":    response,
		"message": "verification code sent",
	})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var dto VerifyOTPDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.VerifyOTP(r.Context(), dto.Email, dto.OTP)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var dto EmailDTO
	if !decode(w, r, &dto) {
		return
	}

	if err := h.service.ResendOTP(r.Context(), dto.Email); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.Login(r.Context(), dto.UsernameOrEmail, dto.Password)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var dto RefreshDTO
	if !decode(w, r, &dto) {
		return
	}

	tokens, err := h.service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto RefreshDTO
	if !decode(w, r, &dto) {
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID, dto.RefreshToken); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto EmailDTO
	if !decode(w, r, &dto) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), dto.Email); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset mail has been sent",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto ResetPasswordDTO
	if !decode(w, r, &dto) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), dto.Token, dto.NewPassword); err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var dto GoogleLoginDTO
	if !decode(w, r, &dto) {
		return
	}

	response, err := h.service.GoogleLogin(r.Context(), dto.Code)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	response, err := h.service.Me(r.Context(), claims.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	responses, err := h.service.ListUsers(r.Context(), limit, page)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, r, apperror.ErrUnauthorized)
		return
	}

	var dto SetActiveDTO
	if !decode(w, r, &dto) {
		return
	}

	id := chi.URLParam(r, "id")
	response, err := h.service.SetUserActive(r.Context(), id, *dto.IsActive)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	if err := h.audit.Log(r.Context(), audit.Entry{
		UserID:     mustUUID(claims.UserID),
		Action:     "user.set_active",
		TargetType: "user",
		TargetID:   id,
		Details:    map[string]interface{}{"is_active": *dto.IsActive},
		IP:         r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	}); err != nil {
		log.WithError(err).Warn("Audit entry not recorded")
	}

	config.JSON(w, http.StatusOK, response)
}
