package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"autoapply/services"
	"autoapply/utils"
)

// RequireToken validates the Bearer token on protected routes.
func RequireToken(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.UnauthorizedError(c, "Missing bearer token")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.UnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("client", claims.Client)
		c.Next()
	}
}
