package reports

import (
	"context"
	"fmt"

	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/event"
)

// ReportService performs business logic and coordinates repo + exporter.
type ReportService interface {
	GetRoster(ctx context.Context, ev *event.Event, req RosterReportRequest) (ReportData, error)
	ExportRoster(ctx context.Context, ev *event.Event, req RosterReportRequest, userID, ip string) ([]byte, string, string, error)

	GetAuditLogs(ctx context.Context, ev *event.Event, req AuditLogReportRequest) (ReportData, error)
	ExportAuditLogs(ctx context.Context, ev *event.Event, req AuditLogReportRequest, userID, ip string) ([]byte, string, string, error)
}

type reportService struct {
	repo     ReportRepository
	exporter ReportExporter
	auditSvc auditlog.Service
}

func NewReportService(repo ReportRepository, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{
		repo:     repo,
		exporter: exporter,
		auditSvc: auditSvc,
	}
}

func (s *reportService) GetRoster(ctx context.Context, ev *event.Event, req RosterReportRequest) (ReportData, error) {
	if err := ValidateRosterFilter(req.Status, req.Role); err != nil {
		return ReportData{}, err
	}
	req.EventID = ev.ID
	rows, err := s.repo.GetRoster(ctx, req)
	if err != nil {
		return ReportData{}, fmt.Errorf("load roster: %w", err)
	}
	return ReportData{EventName: ev.Name, Roster: rows}, nil
}

func (s *reportService) ExportRoster(ctx context.Context, ev *event.Event, req RosterReportRequest, userID, ip string) ([]byte, string, string, error) {
	data, err := s.GetRoster(ctx, ev, req)
	if err != nil {
		return nil, "", "", err
	}
	return s.export(ctx, ev, ReportTypeRoster, req.Format, data, len(data.Roster), userID, ip)
}

func (s *reportService) GetAuditLogs(ctx context.Context, ev *event.Event, req AuditLogReportRequest) (ReportData, error) {
	req.EventID = ev.ID
	rows, err := s.repo.GetAuditLogs(ctx, req)
	if err != nil {
		return ReportData{}, fmt.Errorf("load audit logs: %w", err)
	}
	return ReportData{EventName: ev.Name, AuditLogs: rows}, nil
}

func (s *reportService) ExportAuditLogs(ctx context.Context, ev *event.Event, req AuditLogReportRequest, userID, ip string) ([]byte, string, string, error) {
	data, err := s.GetAuditLogs(ctx, ev, req)
	if err != nil {
		return nil, "", "", err
	}
	return s.export(ctx, ev, ReportTypeAuditLogs, req.Format, data, len(data.AuditLogs), userID, ip)
}

func (s *reportService) export(ctx context.Context, ev *event.Event, reportType, format string, data ReportData, rows int, userID, ip string) ([]byte, string, string, error) {
	b, name, mime, err := s.exporter.Export(reportType, format, data)

	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	s.auditSvc.LogAction(ctx, userID, ev.ID, auditlog.ActionReportExported, map[string]interface{}{
		"report_type": reportType,
		"format":      format,
		"rows":        rows,
	}, ip, status)

	if err != nil {
		return nil, "", "", err
	}
	return b, name, mime, nil
}
