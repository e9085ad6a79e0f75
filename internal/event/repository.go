package event

import (
	"context"
	"errors"

	"github.com/sharath018/golftrip-backend/database"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("event not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuplicatePlayer = errors.New("a player with this email is already on the event")
)

type Repository interface {
	CreateWithOrganizer(ctx context.Context, e *Event, organizer *Player) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListForUser(ctx context.Context, userID string) ([]Event, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	AddPlayer(ctx context.Context, p *Player) error
	ListPlayers(ctx context.Context, eventID string) ([]Player, error)
	DeletePlayer(ctx context.Context, eventID, playerID string) error
	IsAcceptedAdmin(ctx context.Context, eventID, userID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithOrganizer inserts the event and the organizer's accepted admin row together.
func (r *repository) CreateWithOrganizer(ctx context.Context, e *Event, organizer *Player) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		organizer.EventID = e.ID
		return tx.Create(organizer).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListForUser returns events the user created or joined.
func (r *repository) ListForUser(ctx context.Context, userID string) ([]Event, error) {
	var events []Event
	joined := r.db.Model(&Player{}).Select("event_id").
		Where("user_id = ? AND status = ?", userID, StatusAccepted)
	err := r.db.WithContext(ctx).
		Where("created_by = ? OR id IN (?)", userID, joined).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) AddPlayer(ctx context.Context, p *Player) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if database.IsUniqueViolation(err) {
		return ErrDuplicatePlayer
	}
	return err
}

func (r *repository) ListPlayers(ctx context.Context, eventID string) ([]Player, error) {
	var players []Player
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&players).Error
	return players, err
}

func (r *repository) DeletePlayer(ctx context.Context, eventID, playerID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", playerID, eventID).
		Delete(&Player{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *repository) IsAcceptedAdmin(ctx context.Context, eventID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&Player{}).
		Where("event_id = ? AND user_id = ? AND role = ? AND status = ?", eventID, userID, RoleAdmin, StatusAccepted).
		Count(&count).Error
	return count > 0, err
}
