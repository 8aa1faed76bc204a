package middleware

import (
	"errors"
	"net/http"

	"github.com/ahmedhrayyan/phonebook-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const AuthUserKey = "authUser"

const (
	msgMissingToken  = "Authorization header is expected."
	msgInvalidHeader = "Authorization header must be in the format 'Bearer <token>'."
	msgExpiredToken  = "Token has expired."
	msgInvalidToken  = "Invalid token."
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := utils.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": authMessage(err)})
			return
		}

		claims, err := jwtUtil.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": authMessage(err)})
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Next()
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrMissingToken):
		return msgMissingToken
	case errors.Is(err, utils.ErrMalformedHeader):
		return msgInvalidHeader
	case errors.Is(err, utils.ErrExpiredToken):
		return msgExpiredToken
	default:
		return msgInvalidToken
	}
}

// AuthUserID returns the user id set by JWTAuthMiddleware.
func AuthUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(AuthUserKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok && id > 0
}
