package models

import "time"

// Conversation is a thread between a fixed set of participants. ParticipantKey
// is the sorted, de-duplicated participant ids joined with "_"; the unique
// index on it is what guarantees at most one conversation per participant set.
type Conversation struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"conversation_id"`
	ParticipantKey string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"-"`
	LastMessageID  *string   `gorm:"type:varchar(36)" json:"last_message_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	LastMessage  *Message                  `gorm:"foreignKey:LastMessageID;references:ID" json:"last_message,omitempty"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

type ConversationParticipant struct {
	ConversationID string    `gorm:"primaryKey;type:varchar(36)" json:"conversation_id"`
	UserID         string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
}
