package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"vasilestie-backend/internal/domains/audit"
	user "vasilestie-backend/internal/domains/user"
	"vasilestie-backend/internal/rbac"
	"vasilestie-backend/pkg/database"
	"vasilestie-backend/pkg/jwt"
)

type userService struct {
	repo       user.Repository
	auditRepo  audit.Repository
	db         database.TxStarter
	jwtManager *jwt.Manager
}

func NewUserService(repo user.Repository, auditRepo audit.Repository, db database.TxStarter, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		auditRepo:  auditRepo,
		db:         db,
		jwtManager: jwtManager,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// bcrypt cost 12: slow enough to resist brute force, fast enough for login
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Phone:        stringPtr(req.Phone),
		Role:         rbac.RoleUser,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	if u.Status != user.StatusActive {
		return nil, user.ErrAccountNotActive
	}

	resp, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		// Login already succeeded, a failed timestamp write is not fatal.
		return resp, nil
	}

	return resp, nil
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	session, err := s.repo.GetSessionByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	u, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	if u.Status != user.StatusActive {
		return nil, user.ErrAccountNotActive
	}

	// Rotate: the consumed token is deleted before the new one is issued.
	if err := s.repo.DeleteSessionByTokenHash(ctx, session.TokenHash); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return s.issueTokens(ctx, u)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSessionByTokenHash(ctx, hashToken(refreshToken))
}

// issueTokens generates the access JWT and a fresh refresh session.
func (s *userService) issueTokens(ctx context.Context, u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := generateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := &user.Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.jwtManager.RefreshTTL()),
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.AccessTTL()),
		User:         u.ToDTO(),
	}, nil
}

// ========================================
// TEAM MANAGEMENT
// ========================================

func (s *userService) ListTeam(ctx context.Context) ([]user.UserDTO, error) {
	roles := []string{}
	for _, role := range rbac.StaffRoles() {
		roles = append(roles, string(role))
	}

	members, err := s.repo.ListByRoles(ctx, roles)
	if err != nil {
		return nil, err
	}

	return toDTOs(members), nil
}

func (s *userService) CreateTeamMember(ctx context.Context, actor user.Actor, req user.CreateTeamMemberRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Only a super admin can mint another super admin.
	if rbac.Role(req.Role) == rbac.RoleSuperAdmin && actor.Role != rbac.RoleSuperAdmin {
		return nil, user.ErrProtectedTarget
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	member := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         rbac.Role(req.Role),
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, member); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actor.ID,
			Action:      audit.ActionTeamMemberCreated,
			Details: map[string]interface{}{
				"target_user_id": member.ID.String(),
				"email":          member.Email,
				"role":           req.Role,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	dto := member.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateTeamMember(ctx context.Context, actor user.Actor, targetID uuid.UUID, req user.UpdateTeamMemberRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if actor.ID == targetID {
		return nil, user.ErrSelfModification
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.checkProtectedTarget(actor, target); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"target_user_id": targetID.String()}
	if req.FullName != "" {
		target.FullName = req.FullName
		changes["full_name"] = req.FullName
	}
	if req.Role != "" {
		if rbac.Role(req.Role) == rbac.RoleSuperAdmin && actor.Role != rbac.RoleSuperAdmin {
			return nil, user.ErrProtectedTarget
		}
		target.Role = rbac.Role(req.Role)
		changes["role"] = req.Role
	}
	if req.Status != "" {
		target.Status = user.Status(req.Status)
		changes["status"] = req.Status
	}

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, target); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actor.ID,
			Action:      audit.ActionTeamMemberUpdated,
			Details:     changes,
		})
	})
	if err != nil {
		return nil, err
	}

	dto := target.ToDTO()
	return &dto, nil
}

func (s *userService) DeleteTeamMember(ctx context.Context, actor user.Actor, targetID uuid.UUID) error {
	if actor.ID == targetID {
		return user.ErrSelfModification
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.checkProtectedTarget(actor, target); err != nil {
		return err
	}

	// Account, its sessions and the audit entry go in one transaction so a
	// deleted member cannot keep a live refresh token.
	return database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.DeleteSessionsByUserTx(ctx, tx, targetID); err != nil {
			return err
		}

		if err := s.repo.DeleteTx(ctx, tx, targetID); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actor.ID,
			Action:      audit.ActionTeamMemberDeleted,
			Details: map[string]interface{}{
				"target_user_id": targetID.String(),
				"email":          target.Email,
				"role":           string(target.Role),
			},
		})
	})
}

// checkProtectedTarget blocks non-super-admins from touching a super admin
// account.
func (s *userService) checkProtectedTarget(actor user.Actor, target *user.User) error {
	if target.Role == rbac.RoleSuperAdmin && actor.Role != rbac.RoleSuperAdmin {
		return user.ErrProtectedTarget
	}
	return nil
}

// ========================================
// USER ADMINISTRATION
// ========================================

func (s *userService) ListUsers(ctx context.Context, req *user.ListUsersRequest) ([]user.UserDTO, int64, error) {
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	return toDTOs(users), total, nil
}

func (s *userService) UpdateUserStatus(ctx context.Context, actor user.Actor, targetID uuid.UUID, status user.Status) (*user.UserDTO, error) {
	if !status.IsValid() {
		return nil, user.ErrInvalidStatus
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// Admin tier accounts are managed through team endpoints, a restricted
	// back office actor cannot suspend them here.
	if rbac.IsAdminTier(target.Role) && !rbac.IsAdminTier(actor.Role) {
		return nil, user.ErrProtectedTarget
	}

	previous := target.Status

	err = database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.UpdateStatusTx(ctx, tx, targetID, status); err != nil {
			return err
		}

		return s.auditRepo.RecordTx(ctx, tx, &audit.Entry{
			ActorUserID: actor.ID,
			Action:      audit.ActionUserStatusUpdated,
			Details: map[string]interface{}{
				"target_user_id": targetID.String(),
				"from":           string(previous),
				"to":             string(status),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	target.Status = status
	dto := target.ToDTO()
	return &dto, nil
}

// ========================================
// BACKGROUND MAINTENANCE
// ========================================

func (s *userService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

// ========================================
// HELPERS
// ========================================

func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDTOs(users []user.User) []user.UserDTO {
	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return dtos
}
