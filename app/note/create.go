package note

import (
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NoteCreate(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	var data noteBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
		zap.L().Debug("Failed to read JSON body", zap.Error(err))
		return
	}

	in, err := data.input(false)
	if err != nil {
		respond.StoreError(c, "Failed to create note", err)
		return
	}

	note, err := d.Notes.Create(c.Request.Context(), user, in)
	if err != nil {
		respond.StoreError(c, "Failed to create note", err)
		return
	}

	c.JSON(http.StatusCreated, note.View())
}
