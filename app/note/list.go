package note

import (
	"net/http"
	"time"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func reply(c *gin.Context, notes []model.Note, err error) {
	if err != nil {
		respond.StoreError(c, "Failed to lookup notes", err)
		return
	}

	c.JSON(http.StatusOK, model.NoteViews(notes))
}

// NoteFetchOwn returns the notes of the authenticated user
func NoteFetchOwn(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListForOwner(c.Request.Context(), middleware.CurrentUser(c))
	reply(c, notes, err)
}

// NoteFetchAll returns the notes of every user
func NoteFetchAll(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListAll(c.Request.Context())
	reply(c, notes, err)
}

func NoteFetchUnfinished(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListUnfinished(c.Request.Context(), middleware.CurrentUser(c))
	reply(c, notes, err)
}

func NoteFetchFinished(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListFinished(c.Request.Context(), middleware.CurrentUser(c))
	reply(c, notes, err)
}

// NoteFetchOverdue returns notes due now or earlier, finished ones included
func NoteFetchOverdue(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListOverdue(c.Request.Context(), middleware.CurrentUser(c), time.Now())
	reply(c, notes, err)
}

// NoteOrder lists the user's notes sorted by field. The :order parameter
// is "asc" in any case for ascending, everything else sorts descending.
func NoteOrder(c *gin.Context, d *internal.Deps, field store.SortField) {
	dir := store.ParseDirection(c.Param("order"))

	notes, err := d.Notes.ListOrdered(c.Request.Context(), middleware.CurrentUser(c), field, dir)
	reply(c, notes, err)
}
