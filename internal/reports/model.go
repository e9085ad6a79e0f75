package reports

import (
	"time"
)

const (
	ReportTypeRoster    = "roster"
	ReportTypeAuditLogs = "audit-logs"

	// Date range constants
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeAll     = "all"
	DateRangeCustom  = "custom"

	// Report format constants
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// ============================
// Report rows

type RosterReportRow struct {
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AddedAt     time.Time  `json:"added_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

type AuditLogReportRow struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ip_address"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// ReportData is what an exporter renders. Only the slice for the requested type is set.
type ReportData struct {
	EventName string              `json:"event_name"`
	Roster    []RosterReportRow   `json:"roster,omitempty"`
	AuditLogs []AuditLogReportRow `json:"audit_logs,omitempty"`
}

// ============================
// Requests

type RosterReportRequest struct {
	EventID string
	Status  string
	Role    string
	Format  string
}

type AuditLogReportRequest struct {
	EventID   string
	Action    string
	Status    string
	DateRange string
	StartDate time.Time
	EndDate   time.Time
	Format    string
}
