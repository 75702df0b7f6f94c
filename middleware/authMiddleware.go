package middleware

import (
	"net/http"

	"go-restaurant-pos/helpers"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authentication.
const (
	KeyEmail = "email"
	KeyName  = "name"
	KeyUID   = "uid"
	KeyRole  = "user_role"
)

func Authentication(tokens *helpers.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			// browsers cannot set headers on a websocket handshake
			clientToken = c.Query("token")
		}
		if clientToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authorization header provided"})
			return
		}
		claims, err := tokens.ValidateToken(clientToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyName, claims.Name)
		c.Set(KeyUID, claims.Uid)
		c.Set(KeyRole, claims.User_role)
		c.Next()
	}
}

// RequireRole lets the request through only for one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(KeyRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not allowed to access this resource"})
	}
}
