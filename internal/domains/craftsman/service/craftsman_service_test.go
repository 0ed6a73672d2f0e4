package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vasilestie-backend/internal/domains/audit"
	"vasilestie-backend/internal/domains/craftsman"
	"vasilestie-backend/internal/domains/craftsman/service"
)

// ========================================
// TEST DOUBLES
// ========================================

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeTxStarter struct {
	tx *fakeTx
}

func (s *fakeTxStarter) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

type stubRepo struct {
	craftsman.Repository

	getByID     func(ctx context.Context, id uuid.UUID) (*craftsman.Craftsman, error)
	getByUserID func(ctx context.Context, userID uuid.UUID) (*craftsman.Craftsman, error)
	create      func(ctx context.Context, c *craftsman.Craftsman) error
	list        func(ctx context.Context, filter *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error)
	approveTx   func(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error
	rejectTx    func(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error
}

func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*craftsman.Craftsman, error) {
	return r.getByID(ctx, id)
}

func (r *stubRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*craftsman.Craftsman, error) {
	return r.getByUserID(ctx, userID)
}

func (r *stubRepo) Create(ctx context.Context, c *craftsman.Craftsman) error {
	return r.create(ctx, c)
}

func (r *stubRepo) List(ctx context.Context, filter *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error) {
	return r.list(ctx, filter)
}

func (r *stubRepo) ApproveTx(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error {
	return r.approveTx(ctx, tx, c)
}

func (r *stubRepo) RejectTx(ctx context.Context, tx pgx.Tx, c *craftsman.Craftsman) error {
	return r.rejectTx(ctx, tx, c)
}

type stubAuditRepo struct {
	audit.Repository

	entries []audit.Entry
	txSeen  []pgx.Tx
}

func (r *stubAuditRepo) RecordTx(ctx context.Context, tx pgx.Tx, entry *audit.Entry) error {
	r.entries = append(r.entries, *entry)
	r.txSeen = append(r.txSeen, tx)
	return nil
}

func newService(repo *stubRepo, auditRepo *stubAuditRepo, tx *fakeTx) craftsman.Service {
	return service.NewCraftsmanService(repo, auditRepo, &fakeTxStarter{tx: tx})
}

func inactiveCraftsman(id uuid.UUID) *craftsman.Craftsman {
	return &craftsman.Craftsman{
		ID:                 id,
		UserID:             uuid.New(),
		BusinessName:       "Electrica Pop",
		Slug:               "electrica-pop",
		Category:           "electrician",
		County:             "Cluj",
		City:               "Cluj-Napoca",
		Verified:           false,
		SubscriptionStatus: craftsman.SubscriptionInactive,
		SubscriptionPlan:   craftsman.PlanBasic,
		SubscriptionPrice:  craftsman.PlanPrice(craftsman.PlanBasic),
	}
}

// ========================================
// APPROVE / REJECT
// ========================================

func TestApproveActivatesSubscription(t *testing.T) {
	id := uuid.New()
	actorID := uuid.New()
	tx := &fakeTx{}

	var saved *craftsman.Craftsman
	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			require.Equal(t, id, got)
			return inactiveCraftsman(id), nil
		},
		approveTx: func(ctx context.Context, gotTx pgx.Tx, c *craftsman.Craftsman) error {
			require.Same(t, pgx.Tx(tx), gotTx)
			saved = c
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	svc := newService(repo, auditRepo, tx)

	before := time.Now()
	result, err := svc.Approve(context.Background(), actorID, id, craftsman.PlanPremium)
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.True(t, result.Verified)
	assert.Equal(t, craftsman.SubscriptionActive, result.SubscriptionStatus)
	assert.Equal(t, craftsman.PlanPremium, result.SubscriptionPlan)
	assert.True(t, result.SubscriptionPrice.Equal(craftsman.PlanPrice(craftsman.PlanPremium)))

	require.NotNil(t, result.SubscriptionStartDate)
	require.NotNil(t, result.SubscriptionEndDate)
	assert.False(t, result.SubscriptionStartDate.Before(before))
	assert.WithinDuration(t,
		result.SubscriptionStartDate.Add(craftsman.SubscriptionWindow),
		*result.SubscriptionEndDate, time.Second)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionCraftsmanApproved, entry.Action)
	assert.Equal(t, actorID, entry.ActorUserID)
	assert.Equal(t, id.String(), entry.Details["craftsman_id"])

	// Row update and audit append share the transaction.
	require.Len(t, auditRepo.txSeen, 1)
	assert.Same(t, pgx.Tx(tx), auditRepo.txSeen[0])
	assert.True(t, tx.committed)
}

func TestApproveDefaultsToBasicPlan(t *testing.T) {
	id := uuid.New()
	tx := &fakeTx{}
	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return inactiveCraftsman(id), nil
		},
		approveTx: func(ctx context.Context, gotTx pgx.Tx, c *craftsman.Craftsman) error {
			return nil
		},
	}

	result, err := newService(repo, &stubAuditRepo{}, tx).Approve(context.Background(), uuid.New(), id, "")
	require.NoError(t, err)

	assert.Equal(t, craftsman.PlanBasic, result.SubscriptionPlan)
	assert.True(t, result.SubscriptionPrice.Equal(craftsman.PlanPrice(craftsman.PlanBasic)))
}

func TestApproveRejectsUnknownPlan(t *testing.T) {
	repo := &stubRepo{}
	tx := &fakeTx{}

	_, err := newService(repo, &stubAuditRepo{}, tx).Approve(context.Background(), uuid.New(), uuid.New(), "ENTERPRISE")
	assert.ErrorIs(t, err, craftsman.ErrInvalidPlan)
	assert.False(t, tx.committed)
}

func TestApproveAgainRestartsWindow(t *testing.T) {
	// A second approve re-bases the 30-day window to now, it never
	// stacks on top of the remaining time.
	id := uuid.New()
	tx := &fakeTx{}

	oldStart := time.Now().Add(-20 * 24 * time.Hour)
	oldEnd := oldStart.Add(craftsman.SubscriptionWindow)

	active := inactiveCraftsman(id)
	active.Verified = true
	active.SubscriptionStatus = craftsman.SubscriptionActive
	active.SubscriptionStartDate = &oldStart
	active.SubscriptionEndDate = &oldEnd

	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return active, nil
		},
		approveTx: func(ctx context.Context, gotTx pgx.Tx, c *craftsman.Craftsman) error {
			return nil
		},
	}

	result, err := newService(repo, &stubAuditRepo{}, tx).Approve(context.Background(), uuid.New(), id, craftsman.PlanBasic)
	require.NoError(t, err)

	assert.True(t, result.SubscriptionStartDate.After(oldStart))
	assert.WithinDuration(t, time.Now().Add(craftsman.SubscriptionWindow), *result.SubscriptionEndDate, time.Second)
}

func TestRejectClearsSubscription(t *testing.T) {
	id := uuid.New()
	actorID := uuid.New()
	tx := &fakeTx{}

	now := time.Now()
	end := now.Add(craftsman.SubscriptionWindow)
	active := inactiveCraftsman(id)
	active.Verified = true
	active.SubscriptionStatus = craftsman.SubscriptionActive
	active.SubscriptionStartDate = &now
	active.SubscriptionEndDate = &end

	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return active, nil
		},
		rejectTx: func(ctx context.Context, gotTx pgx.Tx, c *craftsman.Craftsman) error {
			require.Same(t, pgx.Tx(tx), gotTx)
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	result, err := newService(repo, auditRepo, tx).Reject(context.Background(), actorID, id)
	require.NoError(t, err)

	assert.False(t, result.Verified)
	assert.Equal(t, craftsman.SubscriptionInactive, result.SubscriptionStatus)
	assert.Nil(t, result.SubscriptionStartDate)
	assert.Nil(t, result.SubscriptionEndDate)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionCraftsmanRejected, auditRepo.entries[0].Action)
	assert.True(t, tx.committed)
}

func TestRejectUnknownCraftsman(t *testing.T) {
	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return nil, craftsman.ErrCraftsmanNotFound
		},
	}
	auditRepo := &stubAuditRepo{}

	_, err := newService(repo, auditRepo, &fakeTx{}).Reject(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, craftsman.ErrCraftsmanNotFound)
	assert.Empty(t, auditRepo.entries)
}

// ========================================
// PUBLIC VISIBILITY
// ========================================

func TestGetPublicByIDHidesLapsedProfile(t *testing.T) {
	id := uuid.New()

	// ACTIVE in the database but the window has passed.
	start := time.Now().Add(-40 * 24 * time.Hour)
	end := start.Add(craftsman.SubscriptionWindow)
	lapsed := inactiveCraftsman(id)
	lapsed.Verified = true
	lapsed.SubscriptionStatus = craftsman.SubscriptionActive
	lapsed.SubscriptionStartDate = &start
	lapsed.SubscriptionEndDate = &end

	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return lapsed, nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).GetPublicByID(context.Background(), id)
	assert.ErrorIs(t, err, craftsman.ErrCraftsmanNotFound)
}

func TestGetPublicByIDHidesUnverified(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{
		getByID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return inactiveCraftsman(id), nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).GetPublicByID(context.Background(), id)
	assert.ErrorIs(t, err, craftsman.ErrCraftsmanNotFound)
}

func TestListAdminShowsEffectiveStatus(t *testing.T) {
	start := time.Now().Add(-40 * 24 * time.Hour)
	end := start.Add(craftsman.SubscriptionWindow)

	lapsed := *inactiveCraftsman(uuid.New())
	lapsed.Verified = true
	lapsed.SubscriptionStatus = craftsman.SubscriptionActive
	lapsed.SubscriptionStartDate = &start
	lapsed.SubscriptionEndDate = &end

	repo := &stubRepo{
		list: func(ctx context.Context, filter *craftsman.ListRequest) ([]craftsman.Craftsman, int64, error) {
			assert.False(t, filter.PublicOnly)
			return []craftsman.Craftsman{lapsed}, 1, nil
		},
	}

	result, total, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).ListAdmin(context.Background(), &craftsman.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, craftsman.SubscriptionExpired, result[0].SubscriptionStatus)
}

// ========================================
// ONBOARDING
// ========================================

func TestOnboardCreatesInactiveProfile(t *testing.T) {
	userID := uuid.New()

	var created *craftsman.Craftsman
	repo := &stubRepo{
		getByUserID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return nil, craftsman.ErrCraftsmanNotFound
		},
		create: func(ctx context.Context, c *craftsman.Craftsman) error {
			created = c
			return nil
		},
	}

	result, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).Onboard(context.Background(), userID, craftsman.OnboardRequest{
		BusinessName: "Instalații Sanitare Brașov",
		Description:  "Instalații sanitare și termice pentru locuințe.",
		Category:     "instalator",
		County:       "Brașov",
		City:         "Brașov",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, "instalatii-sanitare-brasov", result.Slug)
	assert.False(t, result.Verified)
	assert.Equal(t, craftsman.SubscriptionInactive, result.SubscriptionStatus)
	assert.Nil(t, result.SubscriptionStartDate)
}

func TestOnboardTwiceFails(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepo{
		getByUserID: func(ctx context.Context, got uuid.UUID) (*craftsman.Craftsman, error) {
			return inactiveCraftsman(uuid.New()), nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).Onboard(context.Background(), userID, craftsman.OnboardRequest{
		BusinessName: "Electrica Pop",
		Description:  "Lucrări electrice autorizate.",
		Category:     "electrician",
		County:       "Cluj",
		City:         "Cluj-Napoca",
	})
	assert.ErrorIs(t, err, craftsman.ErrAlreadyOnboarded)
}
