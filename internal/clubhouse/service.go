package clubhouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/database"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/event"
)

var (
	ErrBadRequest        = errors.New("invalid request")
	ErrEventNotFound     = errors.New("event not found")
	ErrClubhouseDisabled = errors.New("clubhouse is not enabled for this event")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrGateToken         = errors.New("clubhouse password must be verified first")
	ErrInvalidSession    = errors.New("session is invalid or has expired")
	ErrSessionConflict   = errors.New("sessionId is already in use for another event")
	ErrMigrationRequired = errors.New("clubhouse is not available yet: database migration required")
)

const gateAudience = "clubhouse-gate"

// EventFinder is the read access the clubhouse needs to events.
type EventFinder interface {
	GetByID(ctx context.Context, id string) (*event.Event, error)
}

type Options struct {
	JWTSecret    string
	GateTokenTTL time.Duration
	// SessionTTL is the idle time after which a session stops verifying. Zero disables expiry.
	SessionTTL       time.Duration
	RequireGateToken bool
}

type Service struct {
	repo   Repository
	events EventFinder
	audit  auditlog.Service
	hub    Broadcaster
	opts   Options
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, events EventFinder, audit auditlog.Service, hub Broadcaster, opts Options, log zerolog.Logger) *Service {
	if opts.GateTokenTTL <= 0 {
		opts.GateTokenTTL = 10 * time.Minute
	}
	return &Service{
		repo:   repo,
		events: events,
		audit:  audit,
		hub:    hub,
		opts:   opts,
		log:    log.With().Str("component", "clubhouse").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, msg)
}

// storeErr turns a store failure into ErrMigrationRequired when the clubhouse schema is missing.
func (s *Service) storeErr(op string, err error) error {
	if database.IsMissingSchema(err) {
		s.log.Error().Err(err).Str("op", op).Msg("clubhouse schema missing")
		return ErrMigrationRequired
	}
	return fmt.Errorf("%s: %w", op, err)
}

// clubhouseEvent loads an event that exists, is published and has a clubhouse password.
func (s *Service) clubhouseEvent(ctx context.Context, eventID string) (*event.Event, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, event.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, s.storeErr("load event", err)
	}
	if !ev.IsPublished {
		return nil, ErrEventNotFound
	}
	if !ev.ClubhouseEnabled() {
		return nil, ErrClubhouseDisabled
	}
	return ev, nil
}

// VerifyPassword checks the clubhouse password and returns a short-lived gate token
// that create-session can present.
func (s *Service) VerifyPassword(ctx context.Context, req VerifyPasswordRequest, ip string) (string, error) {
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return "", badRequest("eventId and password are required")
	}

	ev, err := s.clubhouseEvent(ctx, eventID)
	if err != nil {
		return "", err
	}
	if req.Password == "" {
		return "", badRequest("eventId and password are required")
	}

	ok, legacy := ev.MatchClubhousePassword(req.Password)
	if legacy {
		s.log.Warn().Str("event_id", ev.ID).Msg("clubhouse password is stored in plaintext; reset it to store a hash")
	}
	if !ok {
		s.audit.LogAction(ctx, "", ev.ID, auditlog.ActionClubhouseGate, nil, ip, auditlog.StatusFailure)
		return "", ErrWrongPassword
	}

	token, err := s.issueGateToken(ev.ID)
	if err != nil {
		return "", err
	}
	s.audit.LogAction(ctx, "", ev.ID, auditlog.ActionClubhouseGate, nil, ip, auditlog.StatusSuccess)
	return token, nil
}

func (s *Service) issueGateToken(eventID string) (string, error) {
	if s.opts.JWTSecret == "" {
		return "", nil
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   eventID,
		Audience:  jwt.ClaimStrings{gateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.GateTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
}

func (s *Service) checkGateToken(raw, eventID string) error {
	if raw == "" || s.opts.JWTSecret == "" {
		return ErrGateToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(gateAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject != eventID {
		return ErrGateToken
	}
	return nil
}

// CreateSession upserts the visitor's session keyed on the client-generated session id.
// Event preconditions are checked again here; nothing is carried over from the gate call
// unless gate tokens are required.
func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest, ip string) (*Session, error) {
	eventID := strings.TrimSpace(req.EventID)
	sessionID := strings.TrimSpace(req.SessionID)
	name := strings.TrimSpace(req.DisplayName)

	switch {
	case eventID == "" || sessionID == "":
		return nil, badRequest("eventId and sessionId are required")
	case name == "":
		return nil, badRequest("displayName is required")
	case utf8.RuneCountInString(name) > MaxDisplayNameLength:
		return nil, badRequest(fmt.Sprintf("displayName must be %d characters or fewer", MaxDisplayNameLength))
	case len(sessionID) > MaxSessionIDLength:
		return nil, badRequest("sessionId is too long")
	}

	ev, err := s.clubhouseEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if s.opts.RequireGateToken || req.GateToken != "" {
		if err := s.checkGateToken(req.GateToken, ev.ID); err != nil {
			return nil, err
		}
	}

	row, err := s.repo.UpsertSession(ctx, &Session{
		EventID:      ev.ID,
		DisplayName:  name,
		SessionID:    sessionID,
		IsActive:     true,
		LastAccessed: s.now(),
	})
	if err != nil {
		return nil, s.storeErr("upsert session", err)
	}
	if row.EventID != ev.ID {
		return nil, ErrSessionConflict
	}

	s.audit.LogAction(ctx, "", ev.ID, auditlog.ActionClubhouseSession,
		map[string]interface{}{"session_row": row.ID, "display_name": row.DisplayName}, ip, auditlog.StatusSuccess)
	return row, nil
}

// VerifySession confirms the session is active for eventID and bumps last_accessed.
// Sessions idle longer than SessionTTL are deactivated and rejected.
func (s *Service) VerifySession(ctx context.Context, req VerifySessionRequest) (*Session, error) {
	eventID := strings.TrimSpace(req.EventID)
	sessionID := strings.TrimSpace(req.SessionID)
	if eventID == "" || sessionID == "" {
		return nil, badRequest("eventId and sessionId are required")
	}

	row, err := s.repo.GetSession(ctx, sessionID)
	if errors.Is(err, errSessionNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, s.storeErr("get session", err)
	}
	if row.EventID != eventID || !row.IsActive {
		return nil, ErrInvalidSession
	}

	now := s.now()
	if s.opts.SessionTTL > 0 && now.Sub(row.LastAccessed) > s.opts.SessionTTL {
		if err := s.repo.DeactivateSession(ctx, row.ID); err != nil {
			s.log.Error().Err(err).Str("session_row", row.ID).Msg("failed to deactivate expired session")
		}
		return nil, ErrInvalidSession
	}

	if _, err := s.clubhouseEvent(ctx, eventID); err != nil {
		if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrClubhouseDisabled) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if err := s.repo.TouchSession(ctx, row.ID, now); err != nil {
		return nil, s.storeErr("touch session", err)
	}
	row.LastAccessed = now
	return row, nil
}

// PostMessage stores a board message from a verified session and broadcasts it.
func (s *Service) PostMessage(ctx context.Context, sess *Session, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, badRequest("message body is required")
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, badRequest(fmt.Sprintf("message must be %d characters or fewer", MaxMessageLength))
	}

	msg := &Message{
		EventID:     sess.EventID,
		SessionID:   sess.ID,
		DisplayName: sess.DisplayName,
		Body:        body,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, s.storeErr("create message", err)
	}

	if s.hub != nil {
		payload, _ := json.Marshal(msg)
		if err := s.hub.Publish(ctx, msg.EventID, payload); err != nil {
			s.log.Warn().Err(err).Str("event_id", msg.EventID).Msg("failed to broadcast clubhouse message")
		}
	}
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, eventID string, limit int) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	msgs, err := s.repo.ListMessages(ctx, eventID, limit)
	if err != nil {
		return nil, s.storeErr("list messages", err)
	}
	return msgs, nil
}

// Subscribe opens a live feed of new messages for eventID.
func (s *Service) Subscribe(ctx context.Context, eventID string) (<-chan []byte, func(), error) {
	if s.hub == nil {
		return nil, nil, errors.New("live updates are not configured")
	}
	return s.hub.Subscribe(ctx, eventID)
}
