package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/middlewares"
	"github.com/iqnite-app/iqnite-api/internal/question"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
	"github.com/iqnite-app/iqnite-api/internal/session"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type RouterConfig struct {
	UserHandler     *user.Handler
	QuizHandler     *quiz.Handler
	QuestionHandler *question.Handler
	SessionHandler  *session.Handler
	AuditHandler    *audit.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", user.AuthRoutes(cfg.UserHandler))

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
			r.Mount("/question", question.Routes(cfg.QuestionHandler))
			r.Mount("/session", session.Routes(cfg.SessionHandler))

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(string(user.RoleAdmin)))

				r.Mount("/users", user.AdminRoutes(cfg.UserHandler))
				r.Mount("/audit", audit.Routes(cfg.AuditHandler))
			})
		})
	})
	return r
}
