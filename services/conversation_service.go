package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

type ConversationService struct {
	db    *gorm.DB
	users *UserService
}

func NewConversationService(db *gorm.DB, users *UserService) *ConversationService {
	return &ConversationService{db: db, users: users}
}

// ParticipantKey canonicalizes a participant set: sorted, de-duplicated ids
// joined with "_". Both storage and lookup go through this, so set equality
// is order-independent.
func ParticipantKey(userIDs []string) string {
	ids := make([]string, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// Create makes a new conversation for the requester plus every user behind
// participantEmails. The requester is always a participant, whether or not
// their own email was supplied, and a set containing only the requester is
// valid. Unresolvable emails abort the operation and are all reported; an
// existing conversation for the same canonical set is a
// DuplicateConversationError carrying its id.
func (s *ConversationService) Create(requester *models.User, participantEmails []string) (*models.Conversation, error) {
	users, failed, err := s.users.ResolveEmails(participantEmails)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, &UnresolvedEmailsError{Emails: failed}
	}

	ids := make([]string, 0, len(users)+1)
	ids = append(ids, requester.ID)
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	key := ParticipantKey(ids)

	if existing, err := s.getByKey(key); err == nil {
		return nil, &DuplicateConversationError{ExistingID: existing.ID}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv := models.Conversation{
		ID:             uuid.New().String(),
		ParticipantKey: key,
	}
	participants := make([]models.ConversationParticipant, 0, len(ids))
	for _, id := range strings.Split(key, "_") {
		participants = append(participants, models.ConversationParticipant{
			ConversationID: conv.ID,
			UserID:         id,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		// A concurrent create for the same set trips the unique key; report
		// it as the duplicate it is rather than a server error.
		if existing, lookupErr := s.getByKey(key); lookupErr == nil {
			return nil, &DuplicateConversationError{ExistingID: existing.ID}
		}
		return nil, err
	}

	conv.Participants = participants
	return &conv, nil
}

// ListForUser returns every conversation the user participates in, most
// recently updated first, with the last message and participants resolved so
// the client can render previews without extra round trips.
func (s *ConversationService) ListForUser(userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Preload("LastMessage").
		Preload("Participants.User").
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (s *ConversationService) GetByID(id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.Where("id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// IsParticipant re-queries membership; callers must not cache the answer
// across events.
func (s *ConversationService) IsParticipant(conversationID, userID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ConversationService) getByKey(key string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.Where("participant_key = ?", key).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}
