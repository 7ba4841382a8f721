package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamboard/model"
	"teamboard/repository"
	"teamboard/services"
)

const (
	userIDKey = "userId"
	userKey   = "user"
)

// AccessTokenMiddleware validates the bearer token, stores its claims and the
// user id under "userId".
func AccessTokenMiddleware(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		bearerToken := strings.SplitN(header, " ", 2)
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := tokens.ParseAccessToken(bearerToken[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is expired or invalid"})
			return
		}

		c.Set("claims", claims)
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// LoadUser resolves "userId" to the stored account. Deleted users are rejected
// even while their token is still valid.
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		user, err := users.Get(c, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			log.Printf("load user %s: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// Authenticated is AccessTokenMiddleware followed by LoadUser.
func Authenticated(tokens *services.TokenManager, users repository.UserRepository) []gin.HandlerFunc {
	return []gin.HandlerFunc{AccessTokenMiddleware(tokens), LoadUser(users)}
}

// AdminMiddleware allows global admins and superusers.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.CanManageUsers(CurrentUser(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func SuperuserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by LoadUser, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
