package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Recent)
	r.Get("/user/{id}", h.ByUser)
	r.Get("/target/{type}/{id}", h.ByTarget)
	return r
}
