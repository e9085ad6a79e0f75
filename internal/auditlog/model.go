package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded by the service.
const (
	ActionEventCreated         = "EVENT_CREATED"
	ActionTripSaved            = "TRIP_SAVED"
	ActionClubhousePasswordSet = "CLUBHOUSE_PASSWORD_SET"
	ActionClubhouseGate        = "CLUBHOUSE_PASSWORD_VERIFIED"
	ActionClubhouseSession     = "CLUBHOUSE_SESSION_CREATED"
	ActionPlayerAdded          = "PLAYER_ADDED"
	ActionPlayerRemoved        = "PLAYER_REMOVED"
	ActionInvitationAccepted   = "INVITATION_ACCEPTED"
	ActionInvitationsSent      = "INVITATIONS_SENT"
	ActionReportExported       = "REPORT_EXPORTED"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string        `gorm:"size:64;index" json:"user_id"`  // nullable for anonymous clubhouse visitors
	EventID   *string        `gorm:"size:36;index" json:"event_id"` // nullable
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	EventID  string
	UserID   string
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
