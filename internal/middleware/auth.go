package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/transeast/tripmaster-backend/pkg/utils"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		operatorID, _ := claims["id"].(string)
		if operatorID == "" {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("operatorId", operatorID)
		c.Set("capabilities", claimCapabilities(claims))
		c.Next()
	}
}

// RequireCapability gates a route on one of the operator capabilities
// carried in the token.
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		capabilities, _ := c.Get("capabilities")
		caps, ok := capabilities.([]string)
		if !ok || !contains(caps, capability) {
			c.JSON(403, gin.H{"error": "Operator not permitted to perform this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// claims decode JSON arrays as []interface{}
func claimCapabilities(claims jwt.MapClaims) []string {
	raw, ok := claims["capabilities"].([]interface{})
	if !ok {
		return nil
	}
	caps := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			caps = append(caps, s)
		}
	}
	return caps
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
