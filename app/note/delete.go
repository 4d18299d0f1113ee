package note

import (
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func NoteDelete(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	if err := d.Notes.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		respond.StoreError(c, "Failed to delete note", err)
		return
	}

	c.Status(http.StatusNoContent)
}
