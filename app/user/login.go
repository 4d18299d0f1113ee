package user

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		zap.L().Debug("Can't bind request body", zap.Error(err))
		return
	}

	if data.Email == "" {
		respond.Error(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if data.Password == "" {
		respond.Error(c, http.StatusBadRequest, "Password field can't be empty")
		return
	}

	_, token, err := d.Accounts.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "Wrong credentials provided")
			return
		}

		respond.Internal(c, "Failed to log in user", err)
		return
	}

	setAuthCookie(c, d, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged in",
	})
}

func UserLogout(c *gin.Context, d *internal.Deps) {
	clearAuthCookie(c, d)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out Successfully",
	})
}
