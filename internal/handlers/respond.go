package handlers

import (
	"fmt"

	"taskify/internal/apierr"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, apierr.New(code, message).Body())
}

// currentUserID reads the subject placed in the context by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, fmt.Errorf("user id not found in context")
	}

	str, ok := raw.(string)
	if !ok {
		str = fmt.Sprintf("%v", raw)
	}

	userID, err := uuid.FromString(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in context: %w", err)
	}
	return userID, nil
}
