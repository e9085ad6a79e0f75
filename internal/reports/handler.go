package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/internal/event"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/sharath018/golftrip-backend/utils"
)

type Handler struct {
	service ReportService
}

// NewHandler creates a new reports handler
func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidFilter) {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, "Failed to build report")
}

func callerID(c *gin.Context) string {
	if id, ok := middleware.IdentityFromContext(c); ok {
		return id.UserID
	}
	return ""
}

// ExportRoster godoc
// @Summary Trip roster report
// @Description Without format the roster is returned as JSON.
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param format query string false "csv, xlsx or pdf"
// @Param status query string false "invited or accepted"
// @Param role query string false "admin or player"
// @Success 200 {object} ReportData
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/events/{id}/players/export [get]
func (h *Handler) ExportRoster(c *gin.Context) {
	ev, ok := event.ManagedEvent(c)
	if !ok {
		utils.RespondError(c, http.StatusForbidden, "Not allowed")
		return
	}
	format, err := NormalizeFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	req := RosterReportRequest{Status: c.Query("status"), Role: c.Query("role"), Format: format}

	if format == "" {
		data, err := h.service.GetRoster(c.Request.Context(), ev, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}

	b, fname, mime, err := h.service.ExportRoster(c.Request.Context(), ev, req, callerID(c), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, b)
}

// ExportAuditLogs godoc
// @Summary Event audit log report
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param format query string false "csv, xlsx or pdf"
// @Param date_range query string false "daily, weekly, monthly, yearly, all or custom"
// @Param start_date query string false "YYYY-MM-DD (custom range)"
// @Param end_date query string false "YYYY-MM-DD (custom range)"
// @Param action query string false "Action filter"
// @Param status query string false "success or failure"
// @Success 200 {object} ReportData
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/events/{id}/audit-logs/export [get]
func (h *Handler) ExportAuditLogs(c *gin.Context) {
	ev, ok := event.ManagedEvent(c)
	if !ok {
		utils.RespondError(c, http.StatusForbidden, "Not allowed")
		return
	}
	format, err := NormalizeFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	dateRange := c.DefaultQuery("date_range", DateRangeWeekly)
	start, end, err := GetDateRange(dateRange, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	req := AuditLogReportRequest{
		Action:    c.Query("action"),
		Status:    c.Query("status"),
		DateRange: dateRange,
		StartDate: start,
		EndDate:   end,
		Format:    format,
	}

	if format == "" {
		data, err := h.service.GetAuditLogs(c.Request.Context(), ev, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}

	b, fname, mime, err := h.service.ExportAuditLogs(c.Request.Context(), ev, req, callerID(c), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, b)
}
