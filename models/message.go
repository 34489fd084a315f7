package models

import "time"

// Message is immutable once written. History ordering is by CreatedAt with
// ID as the tiebreak, never by arrival order at the server.
type Message struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"message_id"`
	ConversationID string    `gorm:"type:varchar(36);index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"type:varchar(36);not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}
