package note

import (
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"

	"github.com/gin-gonic/gin"
)

func NoteFetch(c *gin.Context, d *internal.Deps) {
	note, err := d.Notes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.StoreError(c, "Failed to fetch note from db", err)
		return
	}

	c.JSON(http.StatusOK, note.View())
}
