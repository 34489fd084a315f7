package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSService owns the real-time surface: the connection gate plus the hub
// and the services the event handlers run against.
type WSService struct {
	hub           *Hub
	verifier      TokenVerifier
	users         *UserService
	conversations *ConversationService
	messages      *MessageService
}

func NewWSService(hub *Hub, verifier TokenVerifier, users *UserService, conversations *ConversationService, messages *MessageService) *WSService {
	return &WSService{
		hub:           hub,
		verifier:      verifier,
		users:         users,
		conversations: conversations,
		messages:      messages,
	}
}

// HandleWebSocket is the connection gate. The credential is verified and the
// user resolved before the upgrade; a connection that fails here never
// completes the handshake and no event handler is reachable on it. Browsers
// cannot set headers on a WebSocket, so the token rides the query string,
// with the Authorization header accepted for non-browser clients.
func (s *WSService) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
		return
	}

	user, err := s.authenticate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}

	client := &Client{
		svc:  s,
		conn: conn,
		send: make(chan []byte, 256),
		user: user,
		id:   uuid.New().String(),
	}
	s.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// authenticate exchanges a bearer credential for an active application user.
// Anything thrown by the verifier, a panic included, is an authentication
// failure rather than a server error.
func (s *WSService) authenticate(token string) (user *models.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			user = nil
			err = fmt.Errorf("credential verification panicked: %v", r)
		}
	}()

	subject, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	// GetByExternalUID already refuses inactive users.
	return s.users.GetByExternalUID(subject)
}
