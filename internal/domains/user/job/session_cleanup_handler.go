package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	user "vasilestie-backend/internal/domains/user"
	"vasilestie-backend/internal/shared"
	"vasilestie-backend/pkg/logger"
)

// SessionCleanupHandler processes the daily user:cleanup_sessions task.
type SessionCleanupHandler struct {
	service user.Service
}

func NewSessionCleanupHandler(service user.Service) *SessionCleanupHandler {
	return &SessionCleanupHandler{service: service}
}

func (h *SessionCleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CleanupSessionsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal cleanup sessions payload failed", err)
		return err
	}

	log.Info().Msg("Starting cleanup of expired sessions")

	deleted, err := h.service.CleanupExpiredSessions(ctx)
	if err != nil {
		logger.Error("Cleanup expired sessions failed", err)
		return err
	}

	log.Info().
		Int64("sessions_deleted", deleted).
		Msg("Successfully cleaned up expired sessions")

	return nil
}
