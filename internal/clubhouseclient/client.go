package clubhouseclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/internal/clubhouse"
	"github.com/sharath018/golftrip-backend/utils"
)

var (
	ErrNoSession      = errors.New("no cached clubhouse session")
	ErrSessionInvalid = errors.New("clubhouse session is no longer valid")
	ErrWrongPassword  = errors.New("incorrect clubhouse password")
	ErrDisabled       = errors.New("clubhouse is not enabled for this event")
	ErrEventNotFound  = errors.New("event not found")
	ErrGateRejected   = errors.New("clubhouse gate token was rejected")
	ErrInvalidName    = errors.New("invalid display name")
)

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clubhouse api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	store   Store
	log     zerolog.Logger
	newID   func() string
	now     func() time.Time
}

func NewClient(baseURL string, store Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
		log:     log.With().Str("component", "clubhouseclient").Logger(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Join runs the gate, registers a fresh session id under displayName and caches it.
func (c *Client) Join(ctx context.Context, eventID, password, displayName string) (*CachedSession, error) {
	var gate clubhouse.VerifyPasswordResponse
	if err := c.post(ctx, "/api/clubhouse/verify-password", "", clubhouse.VerifyPasswordRequest{
		EventID:  eventID,
		Password: password,
	}, &gate); err != nil {
		return nil, mapGateError(err)
	}

	var created clubhouse.SessionResponse
	if err := c.post(ctx, "/api/clubhouse/create-session", "", clubhouse.CreateSessionRequest{
		EventID:     eventID,
		DisplayName: displayName,
		SessionID:   c.newID(),
		GateToken:   gate.GateToken,
	}, &created); err != nil {
		return nil, mapSessionError(err)
	}

	sess := &CachedSession{
		SessionID:   created.Session.SessionID,
		DisplayName: created.Session.DisplayName,
		EventID:     eventID,
		CreatedAt:   c.now().UTC(),
	}
	if err := c.store.Save(sess); err != nil {
		return nil, fmt.Errorf("cache session: %w", err)
	}
	c.log.Info().Str("event_id", eventID).Str("display_name", sess.DisplayName).Msg("joined clubhouse")
	return sess, nil
}

// Resume returns the cached session for eventID after the server confirms it.
// A session the server rejects is removed from the cache.
func (c *Client) Resume(ctx context.Context, eventID string) (*CachedSession, error) {
	sess, err := c.store.Load(eventID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}

	var verified clubhouse.SessionResponse
	err = c.post(ctx, "/api/clubhouse/verify-session", "", clubhouse.VerifySessionRequest{
		EventID:   eventID,
		SessionID: sess.SessionID,
	}, &verified)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if derr := c.store.Delete(eventID); derr != nil {
			c.log.Warn().Err(derr).Str("event_id", eventID).Msg("failed to drop rejected session")
		}
		return nil, fmt.Errorf("%w: %s", ErrSessionInvalid, apiErr.Message)
	}
	if err != nil {
		return nil, err
	}

	if verified.Session.DisplayName != "" && verified.Session.DisplayName != sess.DisplayName {
		sess.DisplayName = verified.Session.DisplayName
		if err := c.store.Save(sess); err != nil {
			c.log.Warn().Err(err).Msg("failed to refresh cached display name")
		}
	}
	return sess, nil
}

// Leave forgets the cached session. The server row simply idles out.
func (c *Client) Leave(eventID string) error {
	return c.store.Delete(eventID)
}

func (c *Client) Messages(ctx context.Context, sess *CachedSession, limit int) ([]clubhouse.Message, error) {
	path := "/api/clubhouse/events/" + url.PathEscape(sess.EventID) + "/messages"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var msgs []clubhouse.Message
	if err := c.do(ctx, http.MethodGet, path, sess.SessionID, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) Post(ctx context.Context, sess *CachedSession, body string) (*clubhouse.Message, error) {
	path := "/api/clubhouse/events/" + url.PathEscape(sess.EventID) + "/messages"
	var msg clubhouse.Message
	if err := c.do(ctx, http.MethodPost, path, sess.SessionID, clubhouse.PostMessageRequest{Body: body}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func mapGateError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return ErrWrongPassword
	case http.StatusForbidden:
		return ErrDisabled
	case http.StatusNotFound:
		return ErrEventNotFound
	}
	return err
}

func mapSessionError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidName, apiErr.Message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrGateRejected, apiErr.Message)
	case http.StatusForbidden:
		return ErrDisabled
	case http.StatusNotFound:
		return ErrEventNotFound
	}
	return err
}

func (c *Client) post(ctx context.Context, path, sessionID string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, sessionID, in, out)
}

func (c *Client) do(ctx context.Context, method, path, sessionID string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(clubhouse.SessionHeader, sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e utils.ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
