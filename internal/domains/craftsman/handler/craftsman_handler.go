package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"vasilestie-backend/internal/domains/craftsman"
	"vasilestie-backend/internal/shared/response"
)

type CraftsmanHandler struct {
	service craftsman.Service
}

func NewCraftsmanHandler(service craftsman.Service) *CraftsmanHandler {
	return &CraftsmanHandler{service: service}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// ListPublic handles GET /craftsmen
func (h *CraftsmanHandler) ListPublic(c *gin.Context) {
	var req craftsman.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Parametri de listare invalizi", err)
		return
	}

	craftsmen, total, err := h.service.ListPublic(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(req.Page, req.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Meșteri listați", craftsmen, meta)
}

// GetPublicByID handles GET /craftsmen/:id
func (h *CraftsmanHandler) GetPublicByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	result, err := h.service.GetPublicByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Meșter găsit", result)
}

// ========================================
// SELF-SERVICE ENDPOINTS
// ========================================

// Onboard handles POST /craftsmen/onboard
func (h *CraftsmanHandler) Onboard(c *gin.Context) {
	var req craftsman.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	result, err := h.service.Onboard(c.Request.Context(), h.callerID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Profil de meșter creat, în așteptarea verificării", result)
}

// UpdateOwnProfile handles PUT /craftsmen/me
func (h *CraftsmanHandler) UpdateOwnProfile(c *gin.Context) {
	var req craftsman.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	result, err := h.service.UpdateOwnProfile(c.Request.Context(), h.callerID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profil actualizat", result)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// ListAdmin handles GET /admin/craftsmen
func (h *CraftsmanHandler) ListAdmin(c *gin.Context) {
	var req craftsman.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Parametri de listare invalizi", err)
		return
	}

	craftsmen, total, err := h.service.ListAdmin(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(req.Page, req.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Meșteri listați", craftsmen, meta)
}

// Approve handles PATCH /admin/craftsmen/:id/approve
func (h *CraftsmanHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	// Body is optional; an empty body means the BASIC plan.
	var req craftsman.ApproveRequest
	_ = c.ShouldBindJSON(&req)
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.service.Approve(c.Request.Context(), h.callerID(c), id, craftsman.SubscriptionPlan(req.Plan))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Meșter aprobat, abonament activat", result)
}

// Reject handles PATCH /admin/craftsmen/:id/reject
func (h *CraftsmanHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ID invalid", nil)
		return
	}

	result, err := h.service.Reject(c.Request.Context(), h.callerID(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Meșter respins", result)
}

// ========================================
// HELPERS
// ========================================

func (h *CraftsmanHandler) callerID(c *gin.Context) uuid.UUID {
	value, _ := c.Get("user_id")
	id, _ := value.(uuid.UUID)
	return id
}

func (h *CraftsmanHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, craftsman.ErrInvalidPlan):
		response.Error(c, http.StatusBadRequest, "Plan de abonament invalid", nil)
	case errors.Is(err, craftsman.ErrCraftsmanNotFound):
		response.Error(c, http.StatusNotFound, "Meșterul nu a fost găsit", nil)
	case errors.Is(err, craftsman.ErrAlreadyOnboarded):
		response.Error(c, http.StatusConflict, "Există deja un profil de meșter pentru acest cont", nil)
	case errors.Is(err, craftsman.ErrSlugAlreadyExists):
		response.Error(c, http.StatusConflict, "Există deja un meșter cu acest nume", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "A apărut o eroare internă", err)
	}
}
