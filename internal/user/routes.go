package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iqnite-app/iqnite-api/internal/auth"
)

// AuthRoutes serves /auth. Logout and the profile endpoint require a bearer
// token, everything else is reachable pre-login.
func AuthRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Post("/resend-otp", h.ResendOTP)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/google", h.GoogleLogin)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
	return r
}

// AdminRoutes serves /admin/users; the router applies the ADMIN role guard.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListUsers)
	r.Patch("/{id}/active", h.SetUserActive)
	return r
}
