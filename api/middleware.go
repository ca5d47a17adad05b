package api

import (
	"net/http"

	"github.com/evgall/ticketline/internal/service/users"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// BasicAuth resolves the Authorization header to a user id and stores it in
// the request context for the handlers.
func BasicAuth(service users.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		userID, err := service.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
