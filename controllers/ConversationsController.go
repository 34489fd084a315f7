package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/middlewares"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/utils"
)

type ConversationController struct {
	conversations *services.ConversationService
}

func NewConversationController(conversations *services.ConversationService) *ConversationController {
	return &ConversationController{conversations: conversations}
}

// GetConversations lists every conversation the caller participates in,
// with the last message resolved for previews.
func (cc *ConversationController) GetConversations(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	conversations, err := cc.conversations.ListForUser(user.ID)
	if err != nil {
		log.Println("Error fetching conversations:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}
	utils.RespondSuccess(c, conversations, nil)
}

// CreateConversationHandler creates a conversation for the caller plus the
// supplied participant emails. Emails that resolve to no user fail the
// request and are all reported; a duplicate participant set is a conflict
// that references the existing conversation instead of creating another.
func (cc *ConversationController) CreateConversationHandler(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var input struct {
		ParticipantEmails []string `json:"participant_emails"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	conversation, err := cc.conversations.Create(user, input.ParticipantEmails)
	if err != nil {
		var unresolved *services.UnresolvedEmailsError
		if errors.As(err, &unresolved) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        "Some participants could not be found",
				"failedEmails": unresolved.Emails,
			})
			return
		}
		var duplicate *services.DuplicateConversationError
		if errors.As(err, &duplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"error":           "Conversation already exists",
				"conversation_id": duplicate.ExistingID,
			})
			return
		}
		log.Println("Error creating conversation:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	utils.RespondSuccess(c, gin.H{"conversation_id": conversation.ID}, nil)
}
