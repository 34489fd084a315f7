package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/middlewares"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/utils"
)

type MessageController struct {
	conversations *services.ConversationService
	messages      *services.MessageService
}

func NewMessageController(conversations *services.ConversationService, messages *services.MessageService) *MessageController {
	return &MessageController{conversations: conversations, messages: messages}
}

// GetMessagesByConversationID returns history oldest first. With ?limit
// (and optional ?before for paging) the query runs newest-first and the
// page is reversed, so the client still renders ascending.
func (mc *MessageController) GetMessagesByConversationID(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	conversationID := c.Param("conversation_id")

	if _, err := mc.conversations.GetByID(conversationID); err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	isParticipant, err := mc.conversations.IsParticipant(conversationID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this conversation"})
		return
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		page, err := mc.messages.Recent(conversationID, limit, c.Query("before"))
		if err != nil {
			log.Println("Error fetching messages:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
			page[i], page[j] = page[j], page[i]
		}
		utils.RespondSuccess(c, page, nil)
		return
	}

	messages, err := mc.messages.History(conversationID)
	if err != nil {
		log.Println("Error fetching messages:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	utils.RespondSuccess(c, messages, nil)
}

// SendMessage appends a message over HTTP, mirroring the real-time
// send-message event's validation.
func (mc *MessageController) SendMessage(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	conversationID := c.Param("conversation_id")

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := mc.conversations.GetByID(conversationID); err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	isParticipant, err := mc.conversations.IsParticipant(conversationID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this conversation"})
		return
	}

	message, err := mc.messages.Append(conversationID, user.ID, input.Content)
	if err != nil {
		log.Println("Error sending message:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	utils.RespondSuccess(c, message, nil)
}
