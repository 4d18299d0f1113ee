package note

import (
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteEdit replaces a note. Concurrent edits of the same note are last
// write wins.
func NoteEdit(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)
	noteID := c.Param("id")

	if err := store.CheckID(noteID); err != nil {
		respond.StoreError(c, "Failed to edit note", err)
		return
	}

	var data noteBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "Malformed or invalid JSON request body")
		zap.L().Debug("Failed to read JSON body", zap.Error(err))
		return
	}

	in, err := data.input(true)
	if err != nil {
		respond.StoreError(c, "Failed to edit note", err)
		return
	}

	note, err := d.Notes.Update(c.Request.Context(), user, noteID, in)
	if err != nil {
		respond.StoreError(c, "Failed to edit note", err)
		return
	}

	c.JSON(http.StatusOK, note.View())
}
