package middleware

import (
	"net/http"
	"strings"

	"taskify/internal/apierr"
	"taskify/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAuth guards the task routes. A valid bearer token puts the
// subject's user id into the context under "user_id".
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := utils.ParseJWT(tokenString, secret)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || !utils.IsValidUUID(sub) {
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set("user_id", sub)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	body := apierr.New(apierr.CodeUnauthorized, message).Body()
	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}
