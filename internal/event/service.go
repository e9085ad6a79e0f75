package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/middleware"
	"github.com/sharath018/golftrip-backend/pkg/validator"
)

var (
	ErrForbidden      = errors.New("you do not have permission to manage this event")
	ErrInvalidInput   = errors.New("invalid input")
	ErrSaveInProgress = errors.New("save already in progress")
)

// Service wraps business logic for golf trip events and their rosters.
type Service struct {
	repo  Repository
	audit auditlog.Service
	saves *SaveGuard
	log   zerolog.Logger
}

func NewService(repo Repository, audit auditlog.Service, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		audit: audit,
		saves: NewSaveGuard(),
		log:   log.With().Str("component", "event").Logger(),
	}
}

// CreateEvent stores a draft event; the caller becomes its creator and an accepted admin.
func (s *Service) CreateEvent(ctx context.Context, caller *middleware.Identity, req CreateEventRequest, ip string) (*Event, error) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}

	ev := &Event{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    req.Location,
		StartDate:   start,
		EndDate:     end,
		Theme:       req.Theme,
		IsPrivate:   req.IsPrivate,
		Details:     req.Details,
		CreatedBy:   caller.UserID,
	}

	organizerName := strings.TrimSpace(req.OrganizerName)
	if organizerName == "" {
		organizerName = caller.Email
	}
	email := caller.Email
	now := time.Now().UTC()
	userID := caller.UserID
	organizer := &Player{
		InvitedEmail: &email,
		DisplayName:  organizerName,
		Role:         RoleAdmin,
		Status:       StatusAccepted,
		UserID:       &userID,
		AcceptedAt:   &now,
	}

	if err := s.repo.CreateWithOrganizer(ctx, ev, organizer); err != nil {
		s.audit.LogAction(ctx, caller.UserID, "", auditlog.ActionEventCreated,
			map[string]interface{}{"name": ev.Name, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}

	s.audit.LogAction(ctx, caller.UserID, ev.ID, auditlog.ActionEventCreated,
		map[string]interface{}{"name": ev.Name}, ip, auditlog.StatusSuccess)
	return ev, nil
}

// GetEvent returns a published public event to anyone; drafts and private events
// only to their managers or accepted players.
func (s *Service) GetEvent(ctx context.Context, id string, caller *middleware.Identity) (*Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.IsPublished && !ev.IsPrivate {
		return ev, nil
	}
	if caller == nil {
		return nil, ErrNotFound
	}
	if ok, err := s.CanManage(ctx, ev, caller.UserID); err != nil {
		return nil, err
	} else if ok {
		return ev, nil
	}
	if ev.IsPublished {
		players, err := s.repo.ListPlayers(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			if p.UserID != nil && *p.UserID == caller.UserID && p.Status == StatusAccepted {
				return ev, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *Service) ListMyEvents(ctx context.Context, caller *middleware.Identity) ([]Event, error) {
	return s.repo.ListForUser(ctx, caller.UserID)
}

// CanManage reports whether userID is the creator or an accepted admin of ev.
func (s *Service) CanManage(ctx context.Context, ev *Event, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if ev.CreatedBy == userID {
		return true, nil
	}
	return s.repo.IsAcceptedAdmin(ctx, ev.ID, userID)
}

// loadManaged fetches the event and checks the caller may manage it.
func (s *Service) loadManaged(ctx context.Context, id string, caller *middleware.Identity) (*Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanManage(ctx, ev, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return ev, nil
}

// SaveTrip applies a partial update. Concurrent saves by the same caller for the
// same event are rejected with ErrSaveInProgress before any store access.
func (s *Service) SaveTrip(ctx context.Context, id string, caller *middleware.Identity, req SaveTripRequest, ip string) (*Event, error) {
	release, ok := s.saves.TryAcquire(saveKey(caller.UserID, id))
	if !ok {
		return nil, ErrSaveInProgress
	}
	defer release()

	if err := validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ev, err := s.loadManaged(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	fields, err := req.toFields(ev)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return ev, nil
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		s.log.Error().Err(err).Str("event_id", id).Msg("trip save failed")
		s.audit.LogAction(ctx, caller.UserID, id, auditlog.ActionTripSaved,
			map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}
	s.audit.LogAction(ctx, caller.UserID, id, auditlog.ActionTripSaved,
		map[string]interface{}{"fields": fieldNames(fields)}, ip, auditlog.StatusSuccess)

	return s.repo.GetByID(ctx, id)
}

// SetClubhousePassword hashes and stores password, or disables the clubhouse when empty.
// The legacy plaintext column is always cleared.
func (s *Service) SetClubhousePassword(ctx context.Context, id string, caller *middleware.Identity, req ClubhousePasswordRequest, ip string) error {
	if err := validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.loadManaged(ctx, id, caller); err != nil {
		return err
	}

	hash := ""
	if req.Password != "" {
		h, err := HashClubhousePassword(req.Password)
		if err != nil {
			return err
		}
		hash = h
	}

	err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"clubhouse_password_hash": hash,
		"clubhouse_password":      "",
	})
	status := auditlog.StatusSuccess
	if err != nil {
		status = auditlog.StatusFailure
	}
	s.audit.LogAction(ctx, caller.UserID, id, auditlog.ActionClubhousePasswordSet,
		map[string]interface{}{"enabled": hash != ""}, ip, status)
	return err
}

func (s *Service) ListPlayers(ctx context.Context, eventID string, caller *middleware.Identity) ([]Player, error) {
	if _, err := s.loadManaged(ctx, eventID, caller); err != nil {
		return nil, err
	}
	return s.repo.ListPlayers(ctx, eventID)
}

// AddPlayer puts a player on the roster in the invited state.
func (s *Service) AddPlayer(ctx context.Context, eventID string, caller *middleware.Identity, req AddPlayerRequest, ip string) (*Player, error) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.loadManaged(ctx, eventID, caller); err != nil {
		return nil, err
	}

	p := &Player{
		EventID:      eventID,
		InvitedEmail: req.normalizedEmail(),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         req.Role,
		Status:       StatusInvited,
	}
	if err := s.repo.AddPlayer(ctx, p); err != nil {
		return nil, err
	}
	s.audit.LogAction(ctx, caller.UserID, eventID, auditlog.ActionPlayerAdded,
		map[string]interface{}{"player_id": p.ID, "email": p.Email(), "role": p.Role}, ip, auditlog.StatusSuccess)
	return p, nil
}

func (s *Service) RemovePlayer(ctx context.Context, eventID, playerID string, caller *middleware.Identity, ip string) error {
	if _, err := s.loadManaged(ctx, eventID, caller); err != nil {
		return err
	}
	if err := s.repo.DeletePlayer(ctx, eventID, playerID); err != nil {
		return err
	}
	s.audit.LogAction(ctx, caller.UserID, eventID, auditlog.ActionPlayerRemoved,
		map[string]interface{}{"player_id": playerID}, ip, auditlog.StatusSuccess)
	return nil
}

func (r SaveTripRequest) toFields(current *Event) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.Theme != nil {
		fields["theme"] = *r.Theme
	}
	if r.IsPublished != nil {
		fields["is_published"] = *r.IsPublished
	}
	if r.IsPrivate != nil {
		fields["is_private"] = *r.IsPrivate
	}
	if len(r.Details) > 0 {
		fields["details"] = r.Details
	}

	start, end := current.StartDate, current.EndDate
	if r.StartDate != nil {
		d, err := parseDate(*r.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
		fields["start_date"] = d
	}
	if r.EndDate != nil {
		d, err := parseDate(*r.EndDate)
		if err != nil {
			return nil, err
		}
		end = d
		fields["end_date"] = d
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	return fields, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
	}
	return &d, nil
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	return names
}
