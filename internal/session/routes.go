package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/start", h.Start)
	r.Get("/my/results", h.MyResults)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/answer", h.SubmitAnswer)
	r.Post("/{id}/complete", h.Complete)
	return r
}
