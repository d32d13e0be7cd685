package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
)

// TokenCookie is the cookie the login handler stores the token in.
const TokenCookie = "token"

// UserFinder loads the account a token was issued for.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// tokenFromRequest reads the token from the cookie, falling back to an
// Authorization: Bearer header and then to ?token= on GET.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	// browsers cannot set headers on a websocket handshake
	if c.Request.Method == http.MethodGet {
		return c.Query("token")
	}
	return ""
}

func authenticate(c *gin.Context, secret []byte, users UserFinder) bool {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return false
	}
	id, err := helper.ParseToken(secret, tokenString)
	if err != nil {
		return false
	}

	// check if the attached user still exists
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return false
	}
	helper.SetUser(c, *user)
	return true
}

// RequireAuth rejects requests without a valid token for an existing user.
func RequireAuth(secret []byte, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret, users) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(secret []byte, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, secret, users)
		c.Next()
	}
}
