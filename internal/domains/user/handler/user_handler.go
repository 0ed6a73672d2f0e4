package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	user "vasilestie-backend/internal/domains/user"
	"vasilestie-backend/internal/rbac"
	"vasilestie-backend/internal/shared/middleware"
	"vasilestie-backend/internal/shared/response"
)

const refreshCookieName = "refresh_token"

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTH ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	userDTO, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Cont creat cu succes", userDTO)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	loginResp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setAuthCookies(c, loginResp)
	loginResp.RefreshToken = ""

	response.Success(c, http.StatusOK, "Autentificare reușită", loginResp)
}

// RefreshToken handles POST /auth/refresh. The refresh token travels only
// in the httpOnly cookie, never in the body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Sesiune invalidă sau expirată", nil)
		return
	}

	loginResp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setAuthCookies(c, loginResp)
	loginResp.RefreshToken = ""

	response.Success(c, http.StatusOK, "Sesiune reînnoită", loginResp)
}

// Logout handles POST /auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err == nil && refreshToken != "" {
		if err := h.service.Logout(c.Request.Context(), refreshToken); err != nil {
			h.handleError(c, err)
			return
		}
	}

	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)

	response.Success(c, http.StatusOK, "Deconectare reușită", nil)
}

func (h *UserHandler) setAuthCookies(c *gin.Context, loginResp *user.LoginResponse) {
	c.SetCookie(
		refreshCookieName,
		loginResp.RefreshToken,
		7*24*3600,
		"/",
		"",
		true,
		true,
	)
	c.SetCookie(
		middleware.SessionCookieName,
		loginResp.AccessToken,
		15*60,
		"/",
		"",
		true,
		true,
	)
}

// ========================================
// TEAM MANAGEMENT ENDPOINTS (/admin/team)
// ========================================

// ListTeam handles GET /admin/team
func (h *UserHandler) ListTeam(c *gin.Context) {
	members, err := h.service.ListTeam(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Echipa a fost listată", members)
}

// CreateTeamMember handles POST /admin/team
func (h *UserHandler) CreateTeamMember(c *gin.Context) {
	var req user.CreateTeamMemberRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	member, err := h.service.CreateTeamMember(c.Request.Context(), h.actor(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Membru adăugat în echipă", member)
}

// UpdateTeamMember handles PUT /admin/team/:id
func (h *UserHandler) UpdateTeamMember(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	var req user.UpdateTeamMemberRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	member, err := h.service.UpdateTeamMember(c.Request.Context(), h.actor(c), targetID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Membru actualizat", member)
}

// DeleteTeamMember handles DELETE /admin/team/:id
func (h *UserHandler) DeleteTeamMember(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	if err := h.service.DeleteTeamMember(c.Request.Context(), h.actor(c), targetID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Membru șters din echipă", nil)
}

// ========================================
// USER ADMINISTRATION ENDPOINTS (/colaborator/users)
// ========================================

// ListUsers handles GET /colaborator/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Parametri de listare invalizi", err)
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(req.Page, req.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Utilizatori listați", users, meta)
}

// UpdateUserStatus handles PUT /colaborator/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	var req user.UpdateUserStatusRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateUserStatus(c.Request.Context(), h.actor(c), targetID, user.Status(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Status actualizat", updated)
}

// ========================================
// HELPERS
// ========================================

// actor reads the caller identity placed in the context by AuthMiddleware.
func (h *UserHandler) actor(c *gin.Context) user.Actor {
	actorID, _ := c.Get("user_id")
	id, _ := actorID.(uuid.UUID)

	return user.Actor{
		ID:   id,
		Role: rbac.Role(c.GetString("role")),
	}
}

func (h *UserHandler) bindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return err
	}

	return nil
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	// 400 Bad Request
	case errors.As(err, &validationErrs):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, user.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "Status invalid", nil)
	case errors.Is(err, user.ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "Rol invalid", nil)
	case errors.Is(err, user.ErrSelfModification):
		response.Error(c, http.StatusBadRequest, "Nu vă puteți modifica sau șterge propriul cont", nil)

	// 401 Unauthorized
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Email sau parolă incorectă", nil)
	case errors.Is(err, user.ErrAccountNotActive):
		response.Error(c, http.StatusUnauthorized, "Contul nu este activ", nil)
	case errors.Is(err, user.ErrInvalidRefreshToken):
		response.Error(c, http.StatusUnauthorized, "Sesiune invalidă sau expirată", nil)

	// 403 Forbidden
	case errors.Is(err, user.ErrProtectedTarget):
		response.Error(c, http.StatusForbidden, "Nu aveți permisiunea de a modifica acest cont", nil)

	// 404 Not Found
	case errors.Is(err, user.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "Utilizatorul nu a fost găsit", nil)

	// 409 Conflict
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "Există deja un cont cu acest email", nil)

	// 500 Internal Server Error
	default:
		response.Error(c, http.StatusInternalServerError, "A apărut o eroare internă", err)
	}
}
