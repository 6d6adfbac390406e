package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/middleware"
)

// currentUserID returns the resolved user's id, or "" when the request
// carries no identity. Services treat "" as unauthenticated.
func currentUserID(c *gin.Context) string {
	user := middleware.UserFromContext(c)
	if user == nil {
		return ""
	}
	return user.ID
}
