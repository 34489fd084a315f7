package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/controllers"
)

// Handlers collects everything RegisterRoutes wires up. Auth is the token
// middleware guarding the protected group.
type Handlers struct {
	Users         *controllers.UserController
	Conversations *controllers.ConversationController
	Messages      *controllers.MessageController
	WS            *controllers.WSController
	Auth          gin.HandlerFunc
}

// RegisterRoutes builds the engine with CORS, the WebSocket endpoint and the
// HTTP API.
func RegisterRoutes(h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))

	// The gate authenticates the socket itself, so /ws sits outside the
	// token middleware.
	r.GET("/ws", h.WS.Handle)

	api := r.Group("/api")
	api.POST("/register", h.Users.Register)
	api.POST("/login", h.Users.Login)

	protected := api.Group("")
	protected.Use(h.Auth)
	{
		protected.GET("/userinfo", h.Users.GetUserInfo)
		protected.GET("/conversations", h.Conversations.GetConversations)
		protected.POST("/conversations", h.Conversations.CreateConversationHandler)
		protected.GET("/conversations/:conversation_id/messages", h.Messages.GetMessagesByConversationID)
		protected.POST("/conversations/:conversation_id/messages", h.Messages.SendMessage)
	}

	return r
}
