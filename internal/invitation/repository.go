package invitation

import (
	"context"
	"errors"
	"time"

	"github.com/sharath018/golftrip-backend/internal/event"
	"gorm.io/gorm"
)

var ErrInvitationNotFound = errors.New("invitation not found")

type Repository interface {
	Find(ctx context.Context, eventID, email string) (*event.Player, error)
	// MarkAccepted moves an invited row to accepted. It reports false when no row
	// was in the invited state.
	MarkAccepted(ctx context.Context, eventID, email, userID string, at time.Time) (bool, error)
	ListPending(ctx context.Context, eventID string) ([]event.Player, error)
	CreateDispatch(ctx context.Context, d *Dispatch) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, eventID, email string) (*event.Player, error) {
	var p event.Player
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND invited_email = ?", eventID, email).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) MarkAccepted(ctx context.Context, eventID, email, userID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&event.Player{}).
		Where("event_id = ? AND invited_email = ? AND status = ?", eventID, email, event.StatusInvited).
		Updates(map[string]interface{}{
			"status":      event.StatusAccepted,
			"user_id":     userID,
			"accepted_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListPending returns invited players that have an email, oldest first.
func (r *repository) ListPending(ctx context.Context, eventID string) ([]event.Player, error) {
	var players []event.Player
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, event.StatusInvited).
		Where("invited_email IS NOT NULL AND invited_email <> ''").
		Order("created_at ASC").Order("id ASC").
		Find(&players).Error
	return players, err
}

func (r *repository) CreateDispatch(ctx context.Context, d *Dispatch) error {
	return r.db.WithContext(ctx).Create(d).Error
}
