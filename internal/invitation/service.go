package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/event"
	"github.com/sharath018/golftrip-backend/internal/notification"
	"github.com/sharath018/golftrip-backend/middleware"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEventNotFound    = errors.New("event not found")
	ErrUnauthenticated  = errors.New("sign in to accept this invitation")
	ErrEmailMismatch    = errors.New("this invitation was sent to a different email address")
	ErrTransitionFailed = errors.New("invitation could not be accepted")
	ErrForbidden        = errors.New("only the organizer or an event admin can send invitations")
)

const sendConcurrency = 5

// EventStore is the event access invitations need.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*event.Event, error)
	IsAcceptedAdmin(ctx context.Context, eventID, userID string) (bool, error)
}

type Options struct {
	AppBaseURL         string
	PlaceholderDomains []string
}

type Service struct {
	repo   Repository
	events EventStore
	audit  auditlog.Service
	mailer notification.Mailer
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, events EventStore, audit auditlog.Service, mailer notification.Mailer, opts Options, log zerolog.Logger) *Service {
	domains := make([]string, 0, len(opts.PlaceholderDomains))
	for _, d := range opts.PlaceholderDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	opts.PlaceholderDomains = domains
	opts.AppBaseURL = strings.TrimRight(opts.AppBaseURL, "/")

	return &Service{
		repo:   repo,
		events: events,
		audit:  audit,
		mailer: mailer,
		opts:   opts,
		log:    log.With().Str("component", "invitation").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// InvitationPath is the client route an invitee lands on.
func InvitationPath(eventID, email string) string {
	return fmt.Sprintf("/invitation/%s?email=%s", url.PathEscape(eventID), url.QueryEscape(email))
}

func (s *Service) link(eventID, email string) string {
	return s.opts.AppBaseURL + InvitationPath(eventID, email)
}

func (s *Service) loadEvent(ctx context.Context, eventID string) (*event.Event, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, event.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	return ev, err
}

// Get returns the public view of one invitation.
func (s *Service) Get(ctx context.Context, eventID, email string) (*View, error) {
	if eventID == "" || email == "" {
		return nil, fmt.Errorf("%w: event id and email are required", ErrInvalidInput)
	}
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Find(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	return &View{
		Event: EventSummary{
			ID: ev.ID, Name: ev.Name, Location: ev.Location,
			StartDate: ev.StartDate, EndDate: ev.EndDate, Theme: ev.Theme,
		},
		Invitation: InvitationSummary{
			ID: p.ID, Email: p.Email(), DisplayName: p.DisplayName, Role: p.Role, Status: p.Status,
		},
		AlreadyAccepted: p.Status == event.StatusAccepted,
	}, nil
}

// Accept links the invitation for (eventID, email) to caller. It returns true when the
// invitation had already been accepted, in which case nothing is changed.
// The caller's email must equal the invited email exactly.
func (s *Service) Accept(ctx context.Context, eventID, email string, caller *middleware.Identity, ip string) (bool, error) {
	if eventID == "" || email == "" {
		return false, fmt.Errorf("%w: event id and email are required", ErrInvalidInput)
	}
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return false, err
	}
	p, err := s.repo.Find(ctx, eventID, email)
	if err != nil {
		return false, err
	}
	if p.Status == event.StatusAccepted {
		return true, nil
	}
	if caller == nil {
		return false, ErrUnauthenticated
	}
	if caller.Email != email {
		s.audit.LogAction(ctx, caller.UserID, eventID, auditlog.ActionInvitationAccepted,
			map[string]interface{}{"reason": "email_mismatch"}, ip, auditlog.StatusFailure)
		return false, ErrEmailMismatch
	}

	updated, err := s.repo.MarkAccepted(ctx, eventID, email, caller.UserID, s.now())
	if err != nil {
		return false, fmt.Errorf("accept invitation: %w", err)
	}
	if !updated {
		// Lost a race with another accept; the row tells us which.
		current, err := s.repo.Find(ctx, eventID, email)
		if err == nil && current.Status == event.StatusAccepted {
			return true, nil
		}
		return false, ErrTransitionFailed
	}

	s.audit.LogAction(ctx, caller.UserID, eventID, auditlog.ActionInvitationAccepted,
		map[string]interface{}{"player_id": p.ID}, ip, auditlog.StatusSuccess)
	return false, nil
}

// AcceptForCaller accepts the invitation addressed to the caller's own email.
func (s *Service) AcceptForCaller(ctx context.Context, eventID string, caller *middleware.Identity, ip string) (bool, error) {
	if caller == nil {
		return false, ErrUnauthenticated
	}
	return s.Accept(ctx, eventID, caller.Email, caller, ip)
}

// IsPlaceholder reports whether email is a stand-in address that must never be mailed.
func (s *Service) IsPlaceholder(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return true
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range s.opts.PlaceholderDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// Send emails every pending invitation of eventID. Each recipient is attempted once;
// a failure is recorded and never stops the rest of the batch.
func (s *Service) Send(ctx context.Context, eventID string, caller *middleware.Identity, ip string) (*SendResponse, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.CreatedBy != caller.UserID {
		ok, err := s.events.IsAcceptedAdmin(ctx, ev.ID, caller.UserID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
	}

	pending, err := s.repo.ListPending(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}

	resp := &SendResponse{Success: true}
	targets := make([]event.Player, 0, len(pending))
	for _, p := range pending {
		if s.IsPlaceholder(p.Email()) {
			resp.SkippedCount++
			continue
		}
		targets = append(targets, p)
	}

	resp.Results = make([]Result, len(targets))
	var g errgroup.Group
	g.SetLimit(sendConcurrency)
	for i, p := range targets {
		g.Go(func() error {
			resp.Results[i] = s.sendOne(ctx, ev, p, caller)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range resp.Results {
		if r.Status == OutcomeSent {
			resp.SentCount++
		} else {
			resp.FailedCount++
		}
	}

	s.record(ctx, ev.ID, caller.UserID, resp, ip)
	return resp, nil
}

func (s *Service) sendOne(ctx context.Context, ev *event.Event, p event.Player, caller *middleware.Identity) Result {
	email := p.Email()
	res := Result{PlayerID: p.ID, Email: email}

	msg, err := notification.RenderInvitation(notification.Invitation{
		EventID:    ev.ID,
		EventName:  ev.Name,
		Location:   ev.Location,
		Dates:      formatDates(ev.StartDate, ev.EndDate),
		PlayerName: p.DisplayName,
		Email:      email,
		InvitedBy:  caller.Email,
		Link:       s.link(ev.ID, email),
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Str("email", email).Msg("invitation email failed")
		res.Status = OutcomeFailed
		res.Error = err.Error()
		return res
	}
	res.Status = OutcomeSent
	return res
}

func (s *Service) record(ctx context.Context, eventID, userID string, resp *SendResponse, ip string) {
	results, _ := json.Marshal(resp.Results)
	d := &Dispatch{
		EventID:      eventID,
		SentBy:       userID,
		SentCount:    resp.SentCount,
		FailedCount:  resp.FailedCount,
		SkippedCount: resp.SkippedCount,
		Results:      results,
	}
	if err := s.repo.CreateDispatch(context.WithoutCancel(ctx), d); err != nil {
		s.log.Error().Err(err).Str("event_id", eventID).Msg("failed to record invitation dispatch")
	}

	status := auditlog.StatusSuccess
	if resp.FailedCount > 0 {
		status = auditlog.StatusFailure
	}
	s.audit.LogAction(ctx, userID, eventID, auditlog.ActionInvitationsSent, map[string]interface{}{
		"sent":    resp.SentCount,
		"failed":  resp.FailedCount,
		"skipped": resp.SkippedCount,
	}, ip, status)
}

func formatDates(start, end *time.Time) string {
	switch {
	case start == nil:
		return ""
	case end == nil || end.Equal(*start):
		return start.Format("Jan 2, 2006")
	default:
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	}
}
