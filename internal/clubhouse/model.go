package clubhouse

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxDisplayNameLength = 50
	MaxSessionIDLength   = 128
	MaxMessageLength     = 500
)

// Session is a clubhouse visitor. SessionID is generated by the client and is the upsert key.
type Session struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID      string    `gorm:"type:varchar(36);not null;index" json:"event_id"`
	DisplayName  string    `gorm:"type:varchar(50);not null" json:"display_name"`
	SessionID    string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"session_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	LastAccessed time.Time `gorm:"not null;index" json:"last_accessed"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "clubhouse_sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Message is a clubhouse board post.
type Message struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID     string    `gorm:"type:varchar(36);not null;index:idx_clubhouse_messages_event_created" json:"eventId"`
	SessionID   string    `gorm:"type:varchar(36);not null" json:"-"`
	DisplayName string    `gorm:"type:varchar(50);not null" json:"displayName"`
	Body        string    `gorm:"type:varchar(500);not null" json:"body"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_clubhouse_messages_event_created" json:"createdAt"`
}

func (Message) TableName() string {
	return "clubhouse_messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ============================
// Requests / responses

type VerifyPasswordRequest struct {
	EventID  string `json:"eventId"`
	Password string `json:"password"`
}

type CreateSessionRequest struct {
	EventID     string `json:"eventId"`
	DisplayName string `json:"displayName"`
	SessionID   string `json:"sessionId"`
	GateToken   string `json:"gateToken,omitempty"`
}

type VerifySessionRequest struct {
	EventID   string `json:"eventId"`
	SessionID string `json:"sessionId"`
}

type PostMessageRequest struct {
	Body string `json:"body"`
}

type VerifyPasswordResponse struct {
	Success   bool   `json:"success"`
	GateToken string `json:"gateToken,omitempty"`
}

type SessionView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	SessionID   string `json:"sessionId,omitempty"`
}

type SessionResponse struct {
	Success bool        `json:"success"`
	Session SessionView `json:"session"`
}
