package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
)

func setupRouter(t *testing.T) (*gin.Engine, *services.UserService, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	users := services.NewUserService(db)
	tokens := services.NewTokenService("test-secret", time.Hour)

	r := gin.New()
	r.GET("/whoami", TokenAuthMiddleware(tokens, users), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.Email)
	})
	return r, users, tokens
}

func TestTokenAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestTokenAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not. a. token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestTokenAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r, users, tokens := setupRouter(t)

	user, err := users.Register("Alice", "alice@x.edu", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := tokens.Generate(user)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "alice@x.edu" {
		t.Errorf("expected resolved user email, got %q", w.Body.String())
	}
}

func TestTokenAuthMiddlewareRejectsTokenSignedElsewhere(t *testing.T) {
	r, users, _ := setupRouter(t)

	user, err := users.Register("Alice", "alice@x.edu", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	foreign := services.NewTokenService("other-secret", time.Hour)
	token, err := foreign.Generate(user)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
