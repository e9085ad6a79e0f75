package auditlog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/database"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db := database.OpenTestDB(t, &AuditLog{})
	return NewService(NewRepository(db), zerolog.Nop())
}

func TestLogActionAndFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.LogAction(ctx, "", "evt-1", ActionClubhouseGate, map[string]interface{}{"result": "unauthorized"}, "192.0.2.1", StatusFailure)
	svc.LogAction(ctx, "user-1", "evt-1", ActionInvitationsSent, map[string]interface{}{"sent": 2}, "192.0.2.1", StatusSuccess)
	svc.LogAction(ctx, "user-1", "evt-2", ActionTripSaved, nil, "192.0.2.1", StatusSuccess)

	page, err := svc.GetAuditLogs(ctx, AuditLogFilter{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("GetAuditLogs: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 2 {
		t.Fatalf("total = %d, rows = %d", page.Total, len(page.Data))
	}
	if page.Limit != 20 || page.Page != 1 || page.TotalPages != 1 {
		t.Errorf("pagination = %+v", page)
	}
	if page.Data[0].Action != ActionInvitationsSent {
		t.Errorf("expected newest first, got %s", page.Data[0].Action)
	}
	if page.Data[1].UserID != nil {
		t.Error("anonymous entry should have NULL user_id")
	}

	var details map[string]interface{}
	if err := json.Unmarshal(page.Data[0].Details, &details); err != nil || details["sent"] != float64(2) {
		t.Errorf("details = %s (%v)", page.Data[0].Details, err)
	}

	t.Run("action partial match", func(t *testing.T) {
		res, err := svc.GetAuditLogs(ctx, AuditLogFilter{Action: "trip"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Total != 1 || res.Data[0].Action != ActionTripSaved {
			t.Errorf("got %+v", res.Data)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := svc.GetAuditLogs(ctx, AuditLogFilter{Status: StatusFailure})
		if err != nil {
			t.Fatal(err)
		}
		if res.Total != 1 {
			t.Errorf("total = %d", res.Total)
		}
	})
}
