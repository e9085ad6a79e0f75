package clubhouse

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errSessionNotFound = errors.New("clubhouse session not found")

type Repository interface {
	UpsertSession(ctx context.Context, s *Session) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeactivateSession(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, eventID string, limit int) ([]Message, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertSession inserts s, or on a session_id conflict within the same event refreshes
// display_name, last_accessed and is_active. A row owned by another event is left
// untouched. The persisted row is read back and returned.
func (r *repository) UpsertSession(ctx context.Context, s *Session) (*Session, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "last_accessed", "is_active"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "clubhouse_sessions.event_id = excluded.event_id"},
		}},
	}).Create(s).Error
	if err != nil {
		return nil, err
	}
	return r.GetSession(ctx, s.SessionID)
}

func (r *repository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) TouchSession(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("last_accessed", at).Error
}

func (r *repository) DeactivateSession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns the latest limit messages in chronological order.
func (r *repository) ListMessages(ctx context.Context, eventID string, limit int) ([]Message, error) {
	var msgs []Message
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
