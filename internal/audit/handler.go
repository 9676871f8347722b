package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iqnite-app/iqnite-api/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, page := pagination(r)

	result, err := h.service.Recent(r.Context(), limit, page)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	limit, page := pagination(r)

	logs, err := h.service.ByUser(r.Context(), chi.URLParam(r, "id"), limit, page)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, logs)
}

func (h *Handler) ByTarget(w http.ResponseWriter, r *http.Request) {
	limit, page := pagination(r)

	logs, err := h.service.ByTarget(
		r.Context(),
		chi.URLParam(r, "type"),
		chi.URLParam(r, "id"),
		limit, page,
	)
	if err != nil {
		config.Error(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, logs)
}

func pagination(r *http.Request) (limit, page int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	return limit, page
}
