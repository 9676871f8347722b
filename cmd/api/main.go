package main

import (
	"net/http"

	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/container"
	"github.com/iqnite-app/iqnite-api/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		UserHandler:     c.UserContainer.Handler,
		QuizHandler:     c.QuizContainer.Handler,
		QuestionHandler: c.QuestionContainer.Handler,
		SessionHandler:  c.SessionContainer.Handler,
		AuditHandler:    c.AuditContainer.Handler,
	})

	addr := ":" + config.C.Port
	config.Logger.WithField("addr", addr).Info("IQnite API listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		config.Logger.WithError(err).Fatal("server stopped")
	}
}
