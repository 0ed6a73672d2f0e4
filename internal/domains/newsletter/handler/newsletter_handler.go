package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"vasilestie-backend/internal/domains/newsletter"
	"vasilestie-backend/internal/shared/response"
)

type NewsletterHandler struct {
	service newsletter.Service
}

func NewNewsletterHandler(service newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// Subscribe handles POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req newsletter.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Corpul cererii este invalid", err)
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Abonare la newsletter reușită", sub)
}

// Unsubscribe handles POST /newsletter/unsubscribe?token=T
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")

	if err := h.service.Unsubscribe(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Dezabonare reușită", nil)
}

// List handles GET /admin/newsletter
func (h *NewsletterHandler) List(c *gin.Context) {
	filter := &newsletter.ListFilter{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	if raw := c.Query("subscribed"); raw != "" {
		subscribed := raw == "true"
		filter.Subscribed = &subscribed
	}

	subs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	meta := response.NewPagination(filter.Page, filter.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Abonați listați", subs, meta)
}

func (h *NewsletterHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, newsletter.ErrInvalidToken):
		response.Error(c, http.StatusBadRequest, "Token invalid sau deja folosit", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "A apărut o eroare internă", err)
	}
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
