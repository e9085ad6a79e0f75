package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/database"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/middleware"
	"gorm.io/datatypes"
)

var (
	owner    = &middleware.Identity{UserID: "owner-1", Email: "owner@club.test"}
	stranger = &middleware.Identity{UserID: "user-2", Email: "stranger@club.test"}
)

func setupService(t *testing.T) (*Service, Repository) {
	t.Helper()
	db := database.OpenTestDB(t, &Event{}, &Player{}, &auditlog.AuditLog{})
	repo := NewRepository(db)
	audit := auditlog.NewService(auditlog.NewRepository(db), zerolog.Nop())
	return NewService(repo, audit, zerolog.Nop()), repo
}

func createEvent(t *testing.T, svc *Service, name string) *Event {
	t.Helper()
	ev, err := svc.CreateEvent(context.Background(), owner, CreateEventRequest{
		Name:      name,
		StartDate: "2026-05-01",
		EndDate:   "2026-05-04",
		Details:   datatypes.JSON(`{"courses":["Pebble Beach"]}`),
	}, "127.0.0.1")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return ev
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateEventAddsOrganizer(t *testing.T) {
	svc, repo := setupService(t)
	ev := createEvent(t, svc, "Monterey Weekend")

	if ev.ID == "" || ev.CreatedBy != owner.UserID || ev.IsPublished {
		t.Fatalf("unexpected event %+v", ev)
	}
	players, err := repo.ListPlayers(context.Background(), ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 1 {
		t.Fatalf("players = %d", len(players))
	}
	p := players[0]
	if p.Role != RoleAdmin || p.Status != StatusAccepted || p.UserID == nil || *p.UserID != owner.UserID {
		t.Errorf("organizer row = %+v", p)
	}

	t.Run("rejects inverted dates", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), owner, CreateEventRequest{
			Name: "Backwards", StartDate: "2026-05-04", EndDate: "2026-05-01",
		}, "")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), owner, CreateEventRequest{Name: "  "}, "")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestGetEventVisibility(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, "Draft Trip")

	if _, err := svc.GetEvent(ctx, ev.ID, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft should be hidden from anonymous, err = %v", err)
	}
	if _, err := svc.GetEvent(ctx, ev.ID, owner); err != nil {
		t.Fatalf("owner should see draft: %v", err)
	}

	if _, err := svc.SaveTrip(ctx, ev.ID, owner, SaveTripRequest{IsPublished: boolPtr(true)}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetEvent(ctx, ev.ID, nil); err != nil {
		t.Fatalf("published public event should be visible: %v", err)
	}

	if _, err := svc.SaveTrip(ctx, ev.ID, owner, SaveTripRequest{IsPrivate: boolPtr(true)}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetEvent(ctx, ev.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("private event should be hidden from strangers, err = %v", err)
	}
}

func TestSaveTrip(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, "Bandon Dunes")

	updated, err := svc.SaveTrip(ctx, ev.ID, owner, SaveTripRequest{
		Name:    strPtr("Bandon Dunes 2026"),
		Theme:   strPtr("links"),
		Details: datatypes.JSON(`{"courses":["Pacific Dunes","Old Macdonald"]}`),
	}, "")
	if err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if updated.Name != "Bandon Dunes 2026" || updated.Theme != "links" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.StartDate == nil {
		t.Error("untouched start date was cleared")
	}

	if _, err := svc.SaveTrip(ctx, ev.ID, stranger, SaveTripRequest{Name: strPtr("hijack")}, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger save err = %v", err)
	}
	if _, err := svc.SaveTrip(ctx, "missing", owner, SaveTripRequest{}, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing event err = %v", err)
	}
	if _, err := svc.SaveTrip(ctx, ev.ID, owner, SaveTripRequest{EndDate: strPtr("2026-04-01")}, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("end before start err = %v", err)
	}
}

// blockingRepo parks UpdateFields for one event until release is closed
// and counts every store call.
type blockingRepo struct {
	Repository
	blockID string
	once    sync.Once
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingRepo) GetByID(ctx context.Context, id string) (*Event, error) {
	b.calls.Add(1)
	return b.Repository.GetByID(ctx, id)
}

func (b *blockingRepo) IsAcceptedAdmin(ctx context.Context, eventID, userID string) (bool, error) {
	b.calls.Add(1)
	return b.Repository.IsAcceptedAdmin(ctx, eventID, userID)
}

func (b *blockingRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	b.calls.Add(1)
	if id == b.blockID {
		parked := false
		b.once.Do(func() { parked = true })
		if parked {
			close(b.entered)
			<-b.release
		}
	}
	return b.Repository.UpdateFields(ctx, id, fields)
}

func TestSaveTripRejectsConcurrentSave(t *testing.T) {
	base, repo := setupService(t)
	first := createEvent(t, base, "First Trip")
	second := createEvent(t, base, "Second Trip")

	blocking := &blockingRepo{
		Repository: repo,
		blockID:    first.ID,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := NewService(blocking, base.audit, zerolog.Nop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.SaveTrip(ctx, first.ID, owner, SaveTripRequest{Name: strPtr("First Trip v2")}, "")
		done <- err
	}()
	<-blocking.entered

	before := blocking.calls.Load()
	_, err := svc.SaveTrip(ctx, first.ID, owner, SaveTripRequest{Name: strPtr("First Trip v3")}, "")
	if !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("second save err = %v, want ErrSaveInProgress", err)
	}
	if after := blocking.calls.Load(); after != before {
		t.Fatalf("rejected save touched the store (%d -> %d calls)", before, after)
	}

	if _, err := svc.SaveTrip(ctx, second.ID, owner, SaveTripRequest{Name: strPtr("Other event")}, ""); err != nil {
		t.Fatalf("save of a different event should not be blocked: %v", err)
	}

	close(blocking.release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}

	saved, err := svc.SaveTrip(ctx, first.ID, owner, SaveTripRequest{Name: strPtr("First Trip v4")}, "")
	if err != nil {
		t.Fatalf("save after release: %v", err)
	}
	if saved.Name != "First Trip v4" {
		t.Errorf("name = %q", saved.Name)
	}
}

func TestClubhousePassword(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, "Clubhouse Trip")

	if err := svc.SetClubhousePassword(ctx, ev.ID, owner, ClubhousePasswordRequest{Password: "birdie42"}, ""); err != nil {
		t.Fatalf("SetClubhousePassword: %v", err)
	}
	stored, _ := repo.GetByID(ctx, ev.ID)
	if !stored.ClubhouseEnabled() || !stored.HasClubhouse {
		t.Fatal("clubhouse should be enabled")
	}
	if stored.ClubhousePasswordHash == "birdie42" {
		t.Fatal("password stored in plaintext")
	}
	if ok, legacy := stored.MatchClubhousePassword("birdie42"); !ok || legacy {
		t.Errorf("match = %v legacy = %v", ok, legacy)
	}
	if ok, _ := stored.MatchClubhousePassword("birdie43"); ok {
		t.Error("mutated password matched")
	}

	if err := svc.SetClubhousePassword(ctx, ev.ID, stranger, ClubhousePasswordRequest{Password: "mine"}, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger err = %v", err)
	}

	if err := svc.SetClubhousePassword(ctx, ev.ID, owner, ClubhousePasswordRequest{}, ""); err != nil {
		t.Fatal(err)
	}
	stored, _ = repo.GetByID(ctx, ev.ID)
	if stored.ClubhouseEnabled() {
		t.Error("clearing the password should disable the clubhouse")
	}
}

func TestLegacyPlaintextPassword(t *testing.T) {
	ev := &Event{ClubhousePassword: "fore"}
	if ok, legacy := ev.MatchClubhousePassword("fore"); !ok || !legacy {
		t.Errorf("exact legacy match: ok=%v legacy=%v", ok, legacy)
	}
	for _, bad := range []string{"Fore", "for", "fore ", ""} {
		if ok, _ := ev.MatchClubhousePassword(bad); ok {
			t.Errorf("%q should not match", bad)
		}
	}
	if ok, _ := (&Event{}).MatchClubhousePassword(""); ok {
		t.Error("no password configured must never match")
	}
}

func TestRoster(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, "Roster Trip")

	p, err := svc.AddPlayer(ctx, ev.ID, owner, AddPlayerRequest{DisplayName: "Ann", Email: "Ann@Club.test"}, "")
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if p.Status != StatusInvited || p.Role != RolePlayer || p.Email() != "Ann@Club.test" {
		t.Errorf("player = %+v", p)
	}

	if _, err := svc.AddPlayer(ctx, ev.ID, owner, AddPlayerRequest{DisplayName: "Ann again", Email: "Ann@Club.test"}, ""); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, err := svc.AddPlayer(ctx, ev.ID, owner, AddPlayerRequest{DisplayName: "No Email"}, ""); err != nil {
		t.Errorf("player without email: %v", err)
	}
	if _, err := svc.AddPlayer(ctx, ev.ID, owner, AddPlayerRequest{DisplayName: "No Email Two"}, ""); err != nil {
		t.Errorf("second player without email: %v", err)
	}
	if _, err := svc.AddPlayer(ctx, ev.ID, owner, AddPlayerRequest{DisplayName: "Bad", Role: "captain"}, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad role err = %v", err)
	}
	if _, err := svc.ListPlayers(ctx, ev.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger list err = %v", err)
	}

	if err := svc.RemovePlayer(ctx, ev.ID, p.ID, owner, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemovePlayer(ctx, ev.ID, p.ID, owner, ""); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("second delete err = %v", err)
	}
	players, _ := repo.ListPlayers(ctx, ev.ID)
	if len(players) != 3 {
		t.Errorf("players = %d, want organizer + two without email", len(players))
	}
}

func TestAcceptedAdminCanManage(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	ev := createEvent(t, svc, "Shared Trip")

	adminID := "admin-7"
	email := "cohost@club.test"
	if err := repo.AddPlayer(ctx, &Player{
		EventID: ev.ID, InvitedEmail: &email, DisplayName: "Co-host",
		Role: RoleAdmin, Status: StatusAccepted, UserID: &adminID,
	}); err != nil {
		t.Fatal(err)
	}

	ok, err := svc.CanManage(ctx, ev, adminID)
	if err != nil || !ok {
		t.Fatalf("accepted admin: ok=%v err=%v", ok, err)
	}
	if ok, _ := svc.CanManage(ctx, ev, stranger.UserID); ok {
		t.Error("stranger can manage")
	}
}
