// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hudzstore/backend/internal/utils"
)

// AdminRequired gates the admin surface behind a valid session token. The
// token is server-verified; there is no client-side-only gate.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		if claims.Role != utils.RoleAdmin {
			utils.UnauthorizedResponse(c, "Admin access required")
			c.Abort()
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}

// OptionalAdmin records session state without rejecting the request, for
// endpoints that report it rather than require it.
func OptionalAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c); ok && claims.Role == utils.RoleAdmin {
			c.Set("is_admin", true)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*utils.SessionClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
