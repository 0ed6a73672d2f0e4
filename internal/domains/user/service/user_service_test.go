package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vasilestie-backend/internal/domains/audit"
	user "vasilestie-backend/internal/domains/user"
	"vasilestie-backend/internal/domains/user/service"
	"vasilestie-backend/internal/rbac"
	"vasilestie-backend/pkg/jwt"
)

// ========================================
// TEST DOUBLES
// ========================================

type fakeTx struct {
	pgx.Tx
	committed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeTxStarter struct {
	tx *fakeTx
}

func (s *fakeTxStarter) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.tx, nil
}

type stubRepo struct {
	user.Repository

	getByID            func(ctx context.Context, id uuid.UUID) (*user.User, error)
	getByEmail         func(ctx context.Context, email string) (*user.User, error)
	createTx           func(ctx context.Context, tx pgx.Tx, u *user.User) error
	updateTx           func(ctx context.Context, tx pgx.Tx, u *user.User) error
	updateStatusTx     func(ctx context.Context, tx pgx.Tx, id uuid.UUID, status user.Status) error
	deleteTx           func(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	createSession      func(ctx context.Context, s *user.Session) error
	updateLastLogin    func(ctx context.Context, id uuid.UUID) error
	deleteSessionsByTx func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getByID(ctx, id)
}

func (r *stubRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getByEmail(ctx, email)
}

func (r *stubRepo) CreateTx(ctx context.Context, tx pgx.Tx, u *user.User) error {
	return r.createTx(ctx, tx, u)
}

func (r *stubRepo) UpdateTx(ctx context.Context, tx pgx.Tx, u *user.User) error {
	return r.updateTx(ctx, tx, u)
}

func (r *stubRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status user.Status) error {
	return r.updateStatusTx(ctx, tx, id, status)
}

func (r *stubRepo) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	return r.deleteTx(ctx, tx, id)
}

func (r *stubRepo) CreateSession(ctx context.Context, s *user.Session) error {
	return r.createSession(ctx, s)
}

func (r *stubRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.updateLastLogin(ctx, id)
}

func (r *stubRepo) DeleteSessionsByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	return r.deleteSessionsByTx(ctx, tx, userID)
}

type stubAuditRepo struct {
	audit.Repository

	entries []audit.Entry
}

func (r *stubAuditRepo) RecordTx(ctx context.Context, tx pgx.Tx, entry *audit.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func testJWT() *jwt.Manager {
	return jwt.NewManager("test-secret-please-rotate", 15*time.Minute, 7*24*time.Hour)
}

func newService(repo *stubRepo, auditRepo *stubAuditRepo, tx *fakeTx) user.Service {
	return service.NewUserService(repo, auditRepo, &fakeTxStarter{tx: tx}, testJWT())
}

func activeUser(id uuid.UUID, role rbac.Role) *user.User {
	return &user.User{
		ID:       id,
		Email:    "ana@example.com",
		FullName: "Ana Ionescu",
		Role:     role,
		Status:   user.StatusActive,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("parola-corecta"), bcrypt.MinCost)
	require.NoError(t, err)

	u := activeUser(uuid.New(), rbac.RoleUser)
	u.PasswordHash = string(hash)

	repo := &stubRepo{
		getByEmail: func(ctx context.Context, email string) (*user.User, error) {
			return u, nil
		},
	}

	_, err = newService(repo, &stubAuditRepo{}, &fakeTx{}).Login(context.Background(), user.LoginRequest{
		Email:    "ana@example.com",
		Password: "parola-gresita",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := &stubRepo{
		getByEmail: func(ctx context.Context, email string) (*user.User, error) {
			return nil, user.ErrUserNotFound
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).Login(context.Background(), user.LoginRequest{
		Email:    "nimeni@example.com",
		Password: "orice-parola",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginSuspendedAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("parola-corecta"), bcrypt.MinCost)
	require.NoError(t, err)

	u := activeUser(uuid.New(), rbac.RoleUser)
	u.PasswordHash = string(hash)
	u.Status = user.StatusSuspended

	repo := &stubRepo{
		getByEmail: func(ctx context.Context, email string) (*user.User, error) {
			return u, nil
		},
	}

	_, err = newService(repo, &stubAuditRepo{}, &fakeTx{}).Login(context.Background(), user.LoginRequest{
		Email:    "ana@example.com",
		Password: "parola-corecta",
	})
	assert.ErrorIs(t, err, user.ErrAccountNotActive)
}

func TestLoginIssuesAccessTokenAndSession(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("parola-corecta"), bcrypt.MinCost)
	require.NoError(t, err)

	u := activeUser(uuid.New(), rbac.RoleUser)
	u.PasswordHash = string(hash)

	var session *user.Session
	repo := &stubRepo{
		getByEmail: func(ctx context.Context, email string) (*user.User, error) {
			return u, nil
		},
		createSession: func(ctx context.Context, s *user.Session) error {
			session = s
			return nil
		},
		updateLastLogin: func(ctx context.Context, id uuid.UUID) error {
			return nil
		},
	}

	resp, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).Login(context.Background(), user.LoginRequest{
		Email:    "ana@example.com",
		Password: "parola-corecta",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, session)
	assert.Equal(t, u.ID, session.UserID)
	// The raw refresh token never lands in the database.
	assert.NotEqual(t, resp.RefreshToken, session.TokenHash)

	claims, err := testJWT().ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, string(rbac.RoleUser), claims.Role)
}

// ========================================
// TEAM MANAGEMENT
// ========================================

func TestCreateTeamMemberRecordsAudit(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}
	tx := &fakeTx{}

	var created *user.User
	repo := &stubRepo{
		createTx: func(ctx context.Context, gotTx pgx.Tx, u *user.User) error {
			created = u
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	dto, err := newService(repo, auditRepo, tx).CreateTeamMember(context.Background(), actor, user.CreateTeamMemberRequest{
		Email:    "mihai@example.com",
		Password: "parola-sigura",
		FullName: "Mihai Popescu",
		Role:     string(rbac.RoleModerator),
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, rbac.RoleModerator, created.Role)
	assert.Equal(t, user.StatusActive, created.Status)
	assert.NotEqual(t, "parola-sigura", created.PasswordHash)
	assert.Equal(t, dto.ID, created.ID)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionTeamMemberCreated, entry.Action)
	assert.Equal(t, actor.ID, entry.ActorUserID)
	assert.True(t, tx.committed)
}

func TestCreateTeamMemberOnlySuperAdminMintsSuperAdmin(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}

	_, err := newService(&stubRepo{}, &stubAuditRepo{}, &fakeTx{}).CreateTeamMember(context.Background(), actor, user.CreateTeamMemberRequest{
		Email:    "root@example.com",
		Password: "parola-sigura",
		FullName: "Root Nou",
		Role:     string(rbac.RoleSuperAdmin),
	})
	assert.ErrorIs(t, err, user.ErrProtectedTarget)
}

func TestCreateTeamMemberRejectsNonStaffRole(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleSuperAdmin}

	_, err := newService(&stubRepo{}, &stubAuditRepo{}, &fakeTx{}).CreateTeamMember(context.Background(), actor, user.CreateTeamMemberRequest{
		Email:    "client@example.com",
		Password: "parola-sigura",
		FullName: "Client Obisnuit",
		Role:     string(rbac.RoleUser),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, user.ErrProtectedTarget)
}

func TestUpdateTeamMemberSelfForbidden(t *testing.T) {
	actorID := uuid.New()
	actor := user.Actor{ID: actorID, Role: rbac.RoleSuperAdmin}

	// getByID left nil on purpose: the guard fires before any repo call.
	_, err := newService(&stubRepo{}, &stubAuditRepo{}, &fakeTx{}).UpdateTeamMember(context.Background(), actor, actorID, user.UpdateTeamMemberRequest{
		FullName: "Alt Nume",
	})
	assert.ErrorIs(t, err, user.ErrSelfModification)
}

func TestUpdateTeamMemberProtectedTarget(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}
	targetID := uuid.New()

	repo := &stubRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return activeUser(targetID, rbac.RoleSuperAdmin), nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).UpdateTeamMember(context.Background(), actor, targetID, user.UpdateTeamMemberRequest{
		Status: string(user.StatusSuspended),
	})
	assert.ErrorIs(t, err, user.ErrProtectedTarget)
}

func TestUpdateTeamMemberEscalationGuard(t *testing.T) {
	// An admin cannot promote anyone to super admin.
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}
	targetID := uuid.New()

	repo := &stubRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return activeUser(targetID, rbac.RoleModerator), nil
		},
	}

	_, err := newService(repo, &stubAuditRepo{}, &fakeTx{}).UpdateTeamMember(context.Background(), actor, targetID, user.UpdateTeamMemberRequest{
		Role: string(rbac.RoleSuperAdmin),
	})
	assert.ErrorIs(t, err, user.ErrProtectedTarget)
}

func TestDeleteTeamMemberSelfForbidden(t *testing.T) {
	actorID := uuid.New()
	actor := user.Actor{ID: actorID, Role: rbac.RoleSuperAdmin}
	auditRepo := &stubAuditRepo{}

	err := newService(&stubRepo{}, auditRepo, &fakeTx{}).DeleteTeamMember(context.Background(), actor, actorID)
	assert.ErrorIs(t, err, user.ErrSelfModification)
	assert.Empty(t, auditRepo.entries)
}

func TestDeleteTeamMemberRevokesSessions(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleSuperAdmin}
	targetID := uuid.New()
	tx := &fakeTx{}

	var sessionsDeleted, rowDeleted bool
	repo := &stubRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return activeUser(targetID, rbac.RoleSupport), nil
		},
		deleteSessionsByTx: func(ctx context.Context, gotTx pgx.Tx, userID uuid.UUID) error {
			assert.Equal(t, targetID, userID)
			sessionsDeleted = true
			return nil
		},
		deleteTx: func(ctx context.Context, gotTx pgx.Tx, id uuid.UUID) error {
			assert.True(t, sessionsDeleted, "sessions must go before the account row")
			rowDeleted = true
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	err := newService(repo, auditRepo, tx).DeleteTeamMember(context.Background(), actor, targetID)
	require.NoError(t, err)

	assert.True(t, rowDeleted)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionTeamMemberDeleted, auditRepo.entries[0].Action)
	assert.True(t, tx.committed)
}

// ========================================
// USER ADMINISTRATION
// ========================================

func TestUpdateUserStatusRecordsTransition(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleCollaborator}
	targetID := uuid.New()
	tx := &fakeTx{}

	repo := &stubRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return activeUser(targetID, rbac.RoleUser), nil
		},
		updateStatusTx: func(ctx context.Context, gotTx pgx.Tx, id uuid.UUID, status user.Status) error {
			assert.Equal(t, user.StatusSuspended, status)
			return nil
		},
	}
	auditRepo := &stubAuditRepo{}

	dto, err := newService(repo, auditRepo, tx).UpdateUserStatus(context.Background(), actor, targetID, user.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, string(user.StatusSuspended), dto.Status)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionUserStatusUpdated, entry.Action)
	assert.Equal(t, string(user.StatusActive), entry.Details["from"])
	assert.Equal(t, string(user.StatusSuspended), entry.Details["to"])
	assert.True(t, tx.committed)
}

func TestUpdateUserStatusInvalidValue(t *testing.T) {
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleAdmin}

	_, err := newService(&stubRepo{}, &stubAuditRepo{}, &fakeTx{}).UpdateUserStatus(context.Background(), actor, uuid.New(), user.Status("BANNED"))
	assert.ErrorIs(t, err, user.ErrInvalidStatus)
}

func TestUpdateUserStatusAdminTierProtected(t *testing.T) {
	// Collaborators manage marketplace users, never admin accounts.
	actor := user.Actor{ID: uuid.New(), Role: rbac.RoleCollaborator}
	targetID := uuid.New()

	repo := &stubRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			return activeUser(targetID, rbac.RoleAdmin), nil
		},
	}
	auditRepo := &stubAuditRepo{}

	_, err := newService(repo, auditRepo, &fakeTx{}).UpdateUserStatus(context.Background(), actor, targetID, user.StatusSuspended)
	assert.ErrorIs(t, err, user.ErrProtectedTarget)
	assert.Empty(t, auditRepo.entries)
}
