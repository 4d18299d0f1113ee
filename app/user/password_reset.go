package user

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetConfirmBody struct {
	Password string `json:"password"`
}

// UserRequestPasswordReset answers the same way whether the email belongs
// to an account or not
func UserRequestPasswordReset(c *gin.Context, d *internal.Deps) {
	var data resetRequestBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := d.Accounts.RequestPasswordReset(c.Request.Context(), data.Email); err != nil {
		if errors.Is(err, service.ErrQueueFull) || errors.Is(err, service.ErrQueueClosed) {
			respond.Error(c, http.StatusServiceUnavailable, "Mail queue is full. Please try again later")
			return
		}

		respond.Internal(c, "Failed to request password reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email is registered, a link to reset the password was sent to it",
	})
}

func UserResetPasswordConfirm(c *gin.Context, d *internal.Deps) {
	var data resetConfirmBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		zap.L().Debug("Can't bind request body", zap.Error(err))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := d.Accounts.ConfirmPasswordReset(c.Request.Context(), c.Param("uidb64"), c.Param("token"), data.Password)
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			respond.Error(c, http.StatusUnauthorized, "Token not valid")
			return
		}

		respond.Internal(c, "Failed to reset password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful",
	})
}
