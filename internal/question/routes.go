package question

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/bulk", h.BulkCreate)
	r.Get("/", h.ListByQuiz)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Remove)

	r.Put("/{id}/image", h.UploadImage)
	r.Get("/{id}/image", h.GetImage)
	r.Delete("/{id}/image", h.DeleteImage)
	return r
}
