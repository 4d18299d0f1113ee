package user

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"

	"github.com/gin-gonic/gin"
)

func UserVerify(c *gin.Context, d *internal.Deps) {
	token := c.Param("token")
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := d.Accounts.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		respond.Internal(c, "Failed to verify user", err)
		return
	}

	c.JSON(http.StatusOK, user.View())
}
