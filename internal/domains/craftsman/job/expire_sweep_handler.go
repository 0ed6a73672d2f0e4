package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"vasilestie-backend/internal/domains/craftsman"
	"vasilestie-backend/internal/shared"
	"vasilestie-backend/pkg/logger"
)

// ExpireSweepHandler processes the daily craftsman:expire_subscriptions
// task. Reads already treat overdue rows as EXPIRED; the sweep makes the
// status durable.
type ExpireSweepHandler struct {
	service craftsman.Service
}

func NewExpireSweepHandler(service craftsman.Service) *ExpireSweepHandler {
	return &ExpireSweepHandler{service: service}
}

func (h *ExpireSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ExpireSubscriptionsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal expire subscriptions payload failed", err)
		return err
	}

	log.Info().Msg("Starting subscription expiry sweep")

	expired, err := h.service.ExpireOverdueSubscriptions(ctx)
	if err != nil {
		logger.Error("Subscription expiry sweep failed", err)
		return err
	}

	log.Info().
		Int64("subscriptions_expired", expired).
		Msg("Subscription expiry sweep finished")

	return nil
}
