package main

import (
	"log"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/config"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/controllers"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/middlewares"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/routes"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
)

func main() {
	cfg := config.Load()
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET must be set")
	}

	db, err := models.Open(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	users := services.NewUserService(db)
	conversations := services.NewConversationService(db, users)
	messages := services.NewMessageService(db)

	hub := services.NewHub()
	ws := services.NewWSService(hub, tokens, users, conversations, messages)

	r := routes.RegisterRoutes(routes.Handlers{
		Users:         controllers.NewUserController(users, tokens),
		Conversations: controllers.NewConversationController(conversations),
		Messages:      controllers.NewMessageController(conversations, messages),
		WS:            controllers.NewWSController(ws),
		Auth:          middlewares.TokenAuthMiddleware(tokens, users),
	}, cfg.CORSOrigins)

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
