package response

import (
	"github.com/gin-gonic/gin"

	"vasilestie-backend/pkg/logger"
)

// Response is the JSON envelope every endpoint returns. Messages are
// operator-facing and kept in Romanian.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Pagination `json:"meta,omitempty"`
}

// Pagination is the listing metadata contract: 1-indexed page,
// total_pages = ceil(total/limit).
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes listing metadata from a total row count.
func NewPagination(page, limit int, total int64) *Pagination {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Pagination) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error returns a failure envelope. The underlying error is logged but never
// leaks to the caller - only the message does.
func Error(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		logger.Error(message, err)
	}
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}
