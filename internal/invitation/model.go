package invitation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Per-recipient dispatch outcomes.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// Dispatch records one bulk send of an event's pending invitations.
type Dispatch struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID      string         `gorm:"type:varchar(36);not null;index" json:"event_id"`
	SentBy       string         `gorm:"type:varchar(64);not null" json:"sent_by"`
	SentCount    int            `gorm:"not null" json:"sent_count"`
	FailedCount  int            `gorm:"not null" json:"failed_count"`
	SkippedCount int            `gorm:"not null" json:"skipped_count"`
	Results      datatypes.JSON `json:"results"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Dispatch) TableName() string {
	return "invitation_dispatches"
}

func (d *Dispatch) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type Result struct {
	PlayerID string `json:"player_id"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// ============================
// Requests / responses

type SendRequest struct {
	EventID string `json:"event_id"`
}

type SendResponse struct {
	Success      bool     `json:"success"`
	SentCount    int      `json:"sent_count"`
	FailedCount  int      `json:"failed_count"`
	SkippedCount int      `json:"skipped_count"`
	Results      []Result `json:"results"`
}

type AcceptRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

type AcceptResponse struct {
	Success         bool   `json:"success"`
	AlreadyAccepted bool   `json:"already_accepted"`
	EventID         string `json:"event_id"`
}

// UnauthenticatedResponse tells the client where to resume after signing in.
type UnauthenticatedResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	ReturnTo string `json:"returnTo"`
}

type RPCAcceptRequest struct {
	EventID string `json:"p_event_id"`
}

type RPCResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type EventSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Theme     string     `json:"theme"`
}

type InvitationSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type View struct {
	Event           EventSummary      `json:"event"`
	Invitation      InvitationSummary `json:"invitation"`
	AlreadyAccepted bool              `json:"alreadyAccepted"`
}
