package event

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================
// Event
type Event struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"type:text" json:"location"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Theme       string     `gorm:"type:varchar(50)" json:"theme"`
	IsPublished bool       `gorm:"not null;index" json:"is_published"`
	IsPrivate   bool       `gorm:"not null" json:"is_private"`

	// bcrypt hash. The plaintext column predates hashing and is only read until the password is reset.
	ClubhousePasswordHash string `gorm:"type:varchar(100)" json:"-"`
	ClubhousePassword     string `gorm:"column:clubhouse_password;type:varchar(255)" json:"-"`

	// Courses, scoring formats, prizes, travel and other trip details.
	Details datatypes.JSON `json:"details,omitempty"`

	CreatedBy string    `gorm:"type:varchar(64);not null;index" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	HasClubhouse bool `gorm:"-" json:"has_clubhouse"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *Event) AfterFind(tx *gorm.DB) error {
	e.HasClubhouse = e.ClubhouseEnabled()
	return nil
}

// ClubhouseEnabled reports whether a clubhouse password is configured.
func (e *Event) ClubhouseEnabled() bool {
	return e.ClubhousePasswordHash != "" || e.ClubhousePassword != ""
}

// MatchClubhousePassword compares candidate with the stored password.
// legacy is true when the comparison used the old plaintext column.
func (e *Event) MatchClubhousePassword(candidate string) (ok bool, legacy bool) {
	if e.ClubhousePasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(e.ClubhousePasswordHash), []byte(candidate)) == nil, false
	}
	if e.ClubhousePassword == "" {
		return false, false
	}
	return subtle.ConstantTimeCompare([]byte(e.ClubhousePassword), []byte(candidate)) == 1, true
}

// HashClubhousePassword returns the salted hash stored for a clubhouse password.
func HashClubhousePassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// ============================
// Player (invitation record)
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"

	StatusInvited  = "invited"
	StatusAccepted = "accepted"
)

type Player struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID      string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_event_players_event_email;index" json:"event_id"`
	InvitedEmail *string    `gorm:"type:varchar(255);uniqueIndex:idx_event_players_event_email" json:"invited_email"`
	DisplayName  string     `gorm:"type:varchar(100);not null" json:"display_name"`
	Role         string     `gorm:"type:varchar(20);not null" json:"role"`
	Status       string     `gorm:"type:varchar(20);not null;index" json:"status"`
	UserID       *string    `gorm:"type:varchar(64);index" json:"user_id,omitempty"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Player) TableName() string {
	return "event_players"
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = RolePlayer
	}
	if p.Status == "" {
		p.Status = StatusInvited
	}
	return nil
}

// Email returns the invited address or "".
func (p *Player) Email() string {
	if p.InvitedEmail == nil {
		return ""
	}
	return *p.InvitedEmail
}

// ============================
// Requests

type CreateEventRequest struct {
	Name        string         `json:"name" validate:"required,notblank,max=255"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	StartDate   string         `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string         `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Theme       string         `json:"theme" validate:"max=50"`
	IsPrivate   bool           `json:"is_private"`
	Details     datatypes.JSON `json:"details"`
	// Display name for the organizer's own roster entry.
	OrganizerName string `json:"organizer_name" validate:"max=100"`
}

// SaveTripRequest is a partial update; nil fields are left unchanged.
type SaveTripRequest struct {
	Name        *string        `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string        `json:"description"`
	Location    *string        `json:"location"`
	StartDate   *string        `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string        `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Theme       *string        `json:"theme" validate:"omitempty,max=50"`
	IsPublished *bool          `json:"is_published"`
	IsPrivate   *bool          `json:"is_private"`
	Details     datatypes.JSON `json:"details"`
}

type ClubhousePasswordRequest struct {
	// Empty clears the password and disables the clubhouse.
	Password string `json:"password" validate:"omitempty,min=4,max=72"`
}

type AddPlayerRequest struct {
	DisplayName string `json:"display_name" validate:"required,notblank,max=100"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Role        string `json:"role" validate:"omitempty,oneof=admin player"`
}

func (r AddPlayerRequest) normalizedEmail() *string {
	e := strings.TrimSpace(r.Email)
	if e == "" {
		return nil
	}
	return &e
}
