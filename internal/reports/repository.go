package reports

import (
	"context"
	"strings"

	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/event"
	"gorm.io/gorm"
)

type ReportRepository interface {
	GetRoster(ctx context.Context, req RosterReportRequest) ([]RosterReportRow, error)
	GetAuditLogs(ctx context.Context, req AuditLogReportRequest) ([]AuditLogReportRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetRoster(ctx context.Context, req RosterReportRequest) ([]RosterReportRow, error) {
	query := r.db.WithContext(ctx).Where("event_id = ?", req.EventID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}

	var players []event.Player
	if err := query.Order("role ASC").Order("display_name ASC").Find(&players).Error; err != nil {
		return nil, err
	}

	rows := make([]RosterReportRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, RosterReportRow{
			DisplayName: p.DisplayName,
			Email:       p.Email(),
			Role:        p.Role,
			Status:      p.Status,
			AddedAt:     p.CreatedAt,
			AcceptedAt:  p.AcceptedAt,
		})
	}
	return rows, nil
}

func (r *reportRepository) GetAuditLogs(ctx context.Context, req AuditLogReportRequest) ([]AuditLogReportRow, error) {
	query := r.db.WithContext(ctx).Where("event_id = ?", req.EventID)
	if req.Action != "" {
		query = query.Where("UPPER(action) LIKE ?", "%"+strings.ToUpper(req.Action)+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if !req.StartDate.IsZero() {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if !req.EndDate.IsZero() {
		query = query.Where("created_at <= ?", req.EndDate)
	}

	var logs []auditlog.AuditLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	rows := make([]AuditLogReportRow, 0, len(logs))
	for _, l := range logs {
		row := AuditLogReportRow{
			ID:        l.ID,
			Action:    l.Action,
			Status:    l.Status,
			IPAddress: l.IPAddress,
			Timestamp: l.CreatedAt,
			Details:   string(l.Details),
		}
		if l.UserID != nil {
			row.UserID = *l.UserID
		}
		rows = append(rows, row)
	}
	return rows, nil
}
