package craftsman

import (
	"context"

	"github.com/google/uuid"
)

// Service is the business logic contract for craftsman profiles and their
// subscription lifecycle.
type Service interface {
	// Public directory
	ListPublic(ctx context.Context, req *ListRequest) ([]Craftsman, int64, error)
	GetPublicByID(ctx context.Context, id uuid.UUID) (*Craftsman, error)

	// Craftsman self-service
	Onboard(ctx context.Context, userID uuid.UUID, req OnboardRequest) (*Craftsman, error)
	UpdateOwnProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Craftsman, error)

	// Admin moderation
	ListAdmin(ctx context.Context, req *ListRequest) ([]Craftsman, int64, error)
	Approve(ctx context.Context, actorID uuid.UUID, craftsmanID uuid.UUID, plan SubscriptionPlan) (*Craftsman, error)
	Reject(ctx context.Context, actorID uuid.UUID, craftsmanID uuid.UUID) (*Craftsman, error)

	// Background maintenance
	ExpireOverdueSubscriptions(ctx context.Context) (int64, error)
}
