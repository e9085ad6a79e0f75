package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/database"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/event"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const jwtSecret = "reports-test-secret"

var (
	organizer = &middleware.Identity{UserID: "owner-1", Email: "owner@club.test"}
	outsider  = &middleware.Identity{UserID: "user-9", Email: "outsider@club.test"}
)

type fixture struct {
	db     *gorm.DB
	events *event.Service
	router *gin.Engine
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := database.OpenTestDB(t, &event.Event{}, &event.Player{}, &auditlog.AuditLog{})
	audit := auditlog.NewService(auditlog.NewRepository(db), zerolog.Nop())
	events := event.NewService(event.NewRepository(db), audit, zerolog.Nop())

	h := NewHandler(NewReportService(NewReportRepository(db), NewReportExporter(), audit))
	eh := event.NewHandler(events)

	r := gin.New()
	g := r.Group("/api/events/:id", middleware.AuthMiddleware(jwtSecret), eh.RequireManager())
	g.GET("/players/export", h.ExportRoster)
	g.GET("/audit-logs/export", h.ExportAuditLogs)

	return &fixture{db: db, events: events, router: r}
}

func (f *fixture) trip(t *testing.T) *event.Event {
	t.Helper()
	ctx := context.Background()
	ev, err := f.events.CreateEvent(ctx, organizer, event.CreateEventRequest{
		Name:      "Bandon Dunes 2026",
		StartDate: "2026-05-01",
		EndDate:   "2026-05-04",
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	for _, p := range []event.AddPlayerRequest{
		{DisplayName: "Alex Fairway", Email: "alex@club.test"},
		{DisplayName: "Sam Bunker", Email: "sam@club.test", Role: event.RoleAdmin},
		{DisplayName: "Jo Green"},
	} {
		if _, err := f.events.AddPlayer(ctx, ev.ID, organizer, p, "127.0.0.1"); err != nil {
			t.Fatalf("AddPlayer: %v", err)
		}
	}
	return ev
}

func (f *fixture) get(t *testing.T, path string, id *middleware.Identity) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := middleware.SignAccessToken(jwtSecret, id.UserID, id.Email, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRosterPreview(t *testing.T) {
	f := setup(t)
	ev := f.trip(t)

	w := f.get(t, "/api/events/"+ev.ID+"/players/export", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var data ReportData
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.EventName != ev.Name || len(data.Roster) != 4 {
		t.Fatalf("unexpected preview %+v", data)
	}

	w = f.get(t, "/api/events/"+ev.ID+"/players/export?role=admin", organizer)
	_ = json.Unmarshal(w.Body.Bytes(), &data)
	if len(data.Roster) != 2 {
		t.Fatalf("admins = %d", len(data.Roster))
	}
	for _, r := range data.Roster {
		if r.Role != event.RoleAdmin {
			t.Fatalf("unexpected role %q", r.Role)
		}
	}
}

func TestRosterCSV(t *testing.T) {
	f := setup(t)
	ev := f.trip(t)

	w := f.get(t, "/api/events/"+ev.ID+"/players/export?format=csv&status=invited", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, mimeCSV) {
		t.Fatalf("content type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment; filename=bandon_dunes_2026_roster_") || !strings.HasSuffix(cd, ".csv") {
		t.Fatalf("content disposition = %q", cd)
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// header + three invited players; the organizer is already accepted
	if len(records) != 4 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0][0] != "Name" || records[0][1] != "Email" {
		t.Fatalf("header = %v", records[0])
	}
}

func TestRosterExcelAndPDF(t *testing.T) {
	f := setup(t)
	ev := f.trip(t)

	w := f.get(t, "/api/events/"+ev.ID+"/players/export?format=xlsx", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", w.Code)
	}
	xl, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer xl.Close()
	rows, err := xl.GetRows("Roster")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("sheet rows = %d", len(rows))
	}

	w = f.get(t, "/api/events/"+ev.ID+"/players/export?format=pdf", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("pdf status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func TestExportRejections(t *testing.T) {
	f := setup(t)
	ev := f.trip(t)

	tests := []struct {
		name   string
		path   string
		caller *middleware.Identity
		want   int
	}{
		{"unknown format", "/players/export?format=docx", organizer, http.StatusBadRequest},
		{"bad status filter", "/players/export?status=declined", organizer, http.StatusBadRequest},
		{"custom range without dates", "/audit-logs/export?date_range=custom", organizer, http.StatusBadRequest},
		{"not a manager", "/players/export?format=csv", outsider, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.get(t, "/api/events/"+ev.ID+tt.path, tt.caller); w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAuditLogExport(t *testing.T) {
	f := setup(t)
	ev := f.trip(t)

	w := f.get(t, "/api/events/"+ev.ID+"/audit-logs/export?date_range=all&action=player", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var data ReportData
	_ = json.Unmarshal(w.Body.Bytes(), &data)
	if len(data.AuditLogs) != 3 {
		t.Fatalf("player audit rows = %d", len(data.AuditLogs))
	}

	w = f.get(t, "/api/events/"+ev.ID+"/audit-logs/export?format=csv&date_range=daily", organizer)
	if w.Code != http.StatusOK {
		t.Fatalf("csv status = %d", w.Code)
	}

	var exported int64
	f.db.Model(&auditlog.AuditLog{}).
		Where("event_id = ? AND action = ?", ev.ID, auditlog.ActionReportExported).
		Count(&exported)
	if exported != 1 {
		t.Fatalf("export audit entries = %d", exported)
	}
}

func TestExporterUnsupported(t *testing.T) {
	e := NewReportExporter()
	if _, _, _, err := e.Export("donations", FormatCSV, ReportData{}); err == nil {
		t.Fatal("expected error for unknown report type")
	}
	if _, _, _, err := e.Export(ReportTypeRoster, "docx", ReportData{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestGetDateRange(t *testing.T) {
	start, end, err := GetDateRange(DateRangeCustom, "2026-05-01", "2026-05-04")
	if err != nil {
		t.Fatal(err)
	}
	if start.Day() != 1 || end.Day() != 4 || end.Hour() != 23 {
		t.Fatalf("range = %v - %v", start, end)
	}
	if _, _, err := GetDateRange(DateRangeCustom, "2026-05-04", "2026-05-01"); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if s, e, _ := GetDateRange(DateRangeAll, "", ""); !s.IsZero() || !e.IsZero() {
		t.Fatal("all should be unbounded")
	}
}
