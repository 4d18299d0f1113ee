package user

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		zap.L().Debug("Can't bind request body", zap.Error(err))
		return
	}

	user, token, err := d.Accounts.Register(c.Request.Context(), store.NewUser{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		Password:  data.Password,
	})
	if err != nil {
		var ve validators.Error

		switch {
		case errors.As(err, &ve):
			respond.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, store.ErrEmailTaken):
			respond.Error(c, http.StatusNotAcceptable, "Email already exist")
		case errors.Is(err, service.ErrMailNotSent):
			respond.Error(c, http.StatusInternalServerError, "Failed to send verification email, please try again")
		default:
			respond.Internal(c, "Failed to register user", err)
		}
		return
	}

	setAuthCookie(c, d, token)
	c.JSON(http.StatusOK, user.View())
}
