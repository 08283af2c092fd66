package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"taskify/internal/apierr"

	"github.com/gin-gonic/gin"
)

func RecoveryWithLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v\n%s", err, debug.Stack())
				body := apierr.New(apierr.CodeInternal, "internal server error").Body()
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
