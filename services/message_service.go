package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Append persists a message and then moves the conversation's last-message
// pointer. The two writes are separate single-row operations: a reader can
// briefly see the new message before the pointer catches up, which is
// accepted since history is never derived from the pointer.
func (s *MessageService) Append(conversationID, senderID, content string) (*models.Message, error) {
	msg := models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_id", msg.ID).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// History returns the conversation's messages oldest first, the order used
// for in-room playback.
func (s *MessageService) History(conversationID string) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	err := s.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Recent pages backwards from beforeID (or from the newest message when
// beforeID is empty), newest first.
func (s *MessageService) Recent(conversationID string, limit int, beforeID string) ([]models.Message, error) {
	q := s.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if beforeID != "" {
		var before models.Message
		if err := s.db.Where("id = ?", beforeID).First(&before).Error; err == nil {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
				before.CreatedAt, before.CreatedAt, before.ID)
		}
	}

	msgs := make([]models.Message, 0)
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
