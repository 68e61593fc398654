package middleware

import (
	"net/http"
	"strings"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/btlam02/gis-app/internal/modules/user/repository"
	"github.com/btlam02/gis-app/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userContextKey = "user"

type AuthMiddleware struct {
	issuer   *token.Issuer
	userRepo repository.UserRepository
}

func NewAuthMiddleware(issuer *token.Issuer, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:   issuer,
		userRepo: userRepo,
	}
}

// RequireAuth resolves the bearer access token into the authenticated user.
// Any failure (missing/invalid/expired/revoked token, unknown or deactivated
// account) leaves the request unauthenticated.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error_message": "authorization required"})
			c.Abort()
			return
		}

		claims, err := m.issuer.Verify(c.Request.Context(), tokenString, token.TypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error_message": "invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error_message": "invalid token claims"})
			c.Abort()
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error_message": "user not found"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entity.User)
	return user, ok
}
