package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vasilestie-backend/internal/domains/audit"
	"vasilestie-backend/internal/shared/response"
)

type AuditHandler struct {
	repo audit.Repository
}

func NewAuditHandler(repo audit.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List handles GET /admin/logs
func (h *AuditHandler) List(c *gin.Context) {
	filter := &audit.ListFilter{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Action: c.Query("action"),
	}
	filter.SetDefaults()

	if raw := c.Query("actor"); raw != "" {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "ID de actor invalid", nil)
			return
		}
		filter.ActorUserID = &actorID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Data de început este invalidă", nil)
			return
		}
		filter.From = &from
	}

	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Data de sfârșit este invalidă", nil)
			return
		}
		filter.To = &to
	}

	entries, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "A apărut o eroare internă", err)
		return
	}

	meta := response.NewPagination(filter.Page, filter.Limit, total)
	response.SuccessWithMeta(c, http.StatusOK, "Jurnal de activitate listat", entries, meta)
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
