package main

import (
	"github.com/hibiken/asynq"

	craftsmanJob "vasilestie-backend/internal/domains/craftsman/job"
	userJob "vasilestie-backend/internal/domains/user/job"
	"vasilestie-backend/internal/shared"
	"vasilestie-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	expireSubscriptions *craftsmanJob.ExpireSweepHandler
	cleanupSessions     *userJob.SessionCleanupHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expireSubscriptions: craftsmanJob.NewExpireSweepHandler(c.CraftsmanService),
		cleanupSessions:     userJob.NewSessionCleanupHandler(c.UserService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpireSubscriptions, h.expireSubscriptions.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupSessions, h.cleanupSessions.ProcessTask)
}
