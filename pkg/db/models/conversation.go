package models

import (
	"time"

	"github.com/jackc/pgtype"
)

// Conversation stores the full serialized state of one intake conversation along with
// the summary columns we list and report on.
type Conversation struct {
	ConversationID string `gorm:"primaryKey;size:50"`
	UserID         string `gorm:"size:50;index"`
	Status         string `gorm:"size:50;default:active;index"`
	StartedAt      time.Time
	CompletedAt    *time.Time
	LastActivityAt time.Time `gorm:"index"`

	// StateJSON is the intakev1.ConversationState document.
	StateJSON pgtype.JSONB `gorm:"column:state_json;type:jsonb;not null"`

	ExchangeCount           int     `gorm:"default:0"`
	CompletionPercentage    int     `gorm:"default:0"`
	MatchedPersonaID        *string `gorm:"size:50"`
	RecommendedCollectionID *string `gorm:"size:50"`
	ConfidenceScore         *int

	// Version is bumped on every save, writes against a stale version are rejected.
	Version int `gorm:"not null;default:0"`

	Messages []ConversationMessage `gorm:"foreignKey:ConversationID;references:ConversationID;constraint:OnDelete:CASCADE;"`
}

// ConversationMessage is the append-only transcript log.
type ConversationMessage struct {
	MessageID      uint      `gorm:"primaryKey"`
	ConversationID string    `gorm:"size:50;index"`
	Speaker        string    `gorm:"size:20;not null"`
	MessageContent string    `gorm:"not null"`
	Timestamp      time.Time `gorm:"index"`

	// ExtractedData is the profile delta pulled from a user message, if any.
	ExtractedData pgtype.JSONB `gorm:"type:jsonb"`
}
