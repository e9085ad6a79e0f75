package auditlog

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type Service interface {
	LogAction(ctx context.Context, userID, eventID string, action string, details map[string]interface{}, ip string, status string)
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{repo: repo, log: log.With().Str("component", "auditlog").Logger()}
}

// LogAction records an entry. Empty userID/eventID are stored as NULL.
// Failures are logged and never surface to the caller's request.
func (s *service) LogAction(ctx context.Context, userID, eventID string, action string, details map[string]interface{}, ip string, status string) {
	if details == nil {
		details = map[string]interface{}{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}

	entry := &AuditLog{
		UserID:    optional(userID),
		EventID:   optional(eventID),
		Action:    action,
		Details:   datatypes.JSON(raw),
		IPAddress: ip,
		Status:    status,
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
