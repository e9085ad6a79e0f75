package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListForEvent handles GET /api/events/:id/audit-logs
// @Summary Event audit trail
// @Description Audit entries for one event, newest first (creator or admin only)
// @Tags AuditLog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "success or failure"
// @Param from_date query string false "YYYY-MM-DD"
// @Param to_date query string false "YYYY-MM-DD"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Records per page (default: 20, max 100)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/events/{id}/audit-logs [get]
func (h *Handler) ListForEvent(c *gin.Context) {
	filter := AuditLogFilter{
		EventID: c.Param("id"),
		Action:  c.Query("action"),
		Status:  c.Query("status"),
	}

	if raw := c.Query("from_date"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid from_date format. Use YYYY-MM-DD")
			return
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to_date"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid to_date format. Use YYYY-MM-DD")
			return
		}
		endOfDay := to.Add(24*time.Hour - time.Second)
		filter.ToDate = &endOfDay
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}
	c.JSON(http.StatusOK, result)
}
