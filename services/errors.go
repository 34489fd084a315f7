package services

import (
	"errors"
	"fmt"
)

// These two error strings go to clients verbatim in the real-time BAD
// envelope, so they are phrased as user-facing messages.
var (
	ErrConversationNotFound = errors.New("Conversation not found")
	ErrNotParticipant       = errors.New("User is not in this conversation")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

// DuplicateConversationError reports a create attempt whose canonical
// participant set already has a conversation.
type DuplicateConversationError struct {
	ExistingID string
}

func (e *DuplicateConversationError) Error() string {
	return fmt.Sprintf("conversation already exists: %s", e.ExistingID)
}

// UnresolvedEmailsError carries every supplied email that did not resolve to
// a known user, not just the first one.
type UnresolvedEmailsError struct {
	Emails []string
}

func (e *UnresolvedEmailsError) Error() string {
	return fmt.Sprintf("no user found for emails: %v", e.Emails)
}
