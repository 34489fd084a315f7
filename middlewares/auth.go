package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CSES-Open-Source/LowPriceCenter-sub000/models"
	"github.com/CSES-Open-Source/LowPriceCenter-sub000/services"
)

const userContextKey = "user"

// TokenAuthMiddleware verifies the bearer credential once at the boundary
// and stores the resolved user in the request context. Handlers trust that
// record and never re-read identity from client-supplied fields.
func TokenAuthMiddleware(verifier services.TokenVerifier, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		subject, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.GetByExternalUID(subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by TokenAuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
