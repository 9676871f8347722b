package audit

import "gorm.io/gorm"

type AuditContainer struct {
	Handler *Handler
	Service Service
}

func NewAuditContainer(db *gorm.DB) *AuditContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &AuditContainer{
		Handler: handler,
		Service: service,
	}
}
