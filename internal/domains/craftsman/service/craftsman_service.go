package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vasilestie-backend/internal/domains/audit"
	"vasilestie-backend/internal/domains/craftsman"
	"vasilestie-backend/internal/shared/utils"
	"vasilestie-backend/pkg/database"
)

type craftsmanService struct {
	repo      craftsman.Repository
	auditRepo audit.Repository
	db        database.TxStarter
}

func NewCraftsmanService(repo craftsman.Repository, auditRepo audit.Repository, db database.TxStarter) craftsman.Service {
	return &craftsmanService{
		repo:      repo,
		auditRepo: auditRepo,
		db:        db,
	}
}

// ========================================
// PUBLIC DIRECTORY
// ========================================

func (s *craftsmanService) ListPublic(ctx context.Context, req *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error) {
	req.SetDefaults()
	req.PublicOnly = true
	req.Status = ""

	return s.repo.List(ctx, req)
}

func (s *craftsmanService) GetPublicByID(ctx context.Context, id uuid.UUID) (*craftsman.Craftsman, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A lapsed or unverified profile is simply absent from the public site.
	if !c.IsPubliclyVisible(time.Now()) {
		return nil, craftsman.ErrCraftsmanNotFound
	}

	c.SubscriptionStatus = c.EffectiveSubscriptionStatus(time.Now())
	return c, nil
}

// ========================================
// SELF-SERVICE
// ========================================

func (s *craftsmanService) Onboard(ctx context.Context, userID uuid.UUID, req craftsman.OnboardRequest) (*craftsman.Craftsman, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return nil, craftsman.ErrAlreadyOnboarded
	}

	now := time.Now()
	c := &craftsman.Craftsman{
		ID:                 uuid.New(),
		UserID:             userID,
		BusinessName:       req.BusinessName,
		Slug:               utils.GenerateSlug(req.BusinessName),
		Description:        req.Description,
		Category:           req.Category,
		County:             req.County,
		City:               req.City,
		Address:            optional(req.Address),
		Phone:              optional(req.Phone),
		ExperienceYears:    req.ExperienceYears,
		Verified:           false,
		SubscriptionStatus: craftsman.SubscriptionInactive,
		SubscriptionPlan:   craftsman.PlanBasic,
		SubscriptionPrice:  craftsman.PlanPrice(craftsman.PlanBasic),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *craftsmanService) UpdateOwnProfile(ctx context.Context, userID uuid.UUID, req craftsman.UpdateProfileRequest) (*craftsman.Craftsman, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != "" {
		c.BusinessName = req.BusinessName
		c.Slug = utils.GenerateSlug(req.BusinessName)
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.Category != "" {
		c.Category = req.Category
	}
	if req.County != "" {
		c.County = req.County
	}
	if req.City != "" {
		c.City = req.City
	}
	if req.Address != "" {
		c.Address = optional(req.Address)
	}
	if req.Phone != "" {
		c.Phone = optional(req.Phone)
	}
	if req.ExperienceYears != nil {
		c.ExperienceYears = *req.ExperienceYears
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ========================================
// ADMIN MODERATION
// ========================================

func (s *craftsmanService) ListAdmin(ctx context.Context, req *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error) {
	req.SetDefaults()
	req.PublicOnly = false

	craftsmen, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	// Admin listing shows the effective status so an operator sees EXPIRED
	// even before the nightly sweep persists it.
	now := time.Now()
	for i := range craftsmen {
		craftsmen[i].SubscriptionStatus = craftsmen[i].EffectiveSubscriptionStatus(now)
	}

	return craftsmen, total, nil
}

// Approve activates the subscription from any state: verified=true, ACTIVE,
// 30-day window re-based to now and the plan price snapshotted. A second
// approve restarts the window, it does not extend it. The row update and
// its audit entry commit in one transaction.
func (s *craftsmanService) Approve(ctx context.Context, actorID uuid.UUID, craftsmanID uuid.UUID, plan craftsman.SubscriptionPlan) (*craftsman.Craftsman, error) {
	if plan == "" {
		plan = craftsman.PlanBasic
	}
	if !plan.IsValid() {
		return nil, craftsman.ErrInvalidPlan
	}

	c, err := s.repo.GetByID(ctx, craftsmanID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	end := now.Add(craftsman.SubscriptionWindow)

	c.Verified = true
	c.SubscriptionStatus = craftsman.SubscriptionActive
	c.SubscriptionPlan = plan
	c.SubscriptionPrice = craftsman.PlanPrice(plan)
	c.SubscriptionStartDate = &now
	c.SubscriptionEndDate = &end

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.ApproveTx(ctx, tx, c); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actorID,
			Action:      audit.ActionCraftsmanApproved,
			Details: map[string]interface{}{
				"craftsman_id":          craftsmanID.String(),
				"plan":                  string(plan),
				"subscription_end_date": end,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Reject deactivates from any state: verified=false, INACTIVE, dates
// cleared. Same transactional shape as Approve.
func (s *craftsmanService) Reject(ctx context.Context, actorID uuid.UUID, craftsmanID uuid.UUID) (*craftsman.Craftsman, error) {
	c, err := s.repo.GetByID(ctx, craftsmanID)
	if err != nil {
		return nil, err
	}

	c.Verified = false
	c.SubscriptionStatus = craftsman.SubscriptionInactive
	c.SubscriptionStartDate = nil
	c.SubscriptionEndDate = nil

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.RejectTx(ctx, tx, c); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actorID,
			Action:      audit.ActionCraftsmanRejected,
			Details: map[string]interface{}{
				"craftsman_id": craftsmanID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ========================================
// BACKGROUND MAINTENANCE
// ========================================

func (s *craftsmanService) ExpireOverdueSubscriptions(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
