package user

import (
	"net/http"

	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the authenticated user
func UserFetch(c *gin.Context, d *internal.Deps) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c).View())
}
