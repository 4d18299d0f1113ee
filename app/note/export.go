package note

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/app/respond"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteGenerateCSV streams the user's notes as a CSV attachment
func NoteGenerateCSV(c *gin.Context, d *internal.Deps) {
	notes, err := d.Notes.ListForOwner(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respond.Internal(c, "Failed to lookup notes", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="notes.csv"`)
	c.Status(http.StatusOK)

	// Headers are out already, all that's left is to log
	if err := service.WriteCSV(c.Writer, notes); err != nil {
		zap.L().Error("Failed to write CSV export", zap.Error(err), zap.String("requestID", c.GetString(middleware.RequestIDKey)))
	}
}

// NoteGeneratePDF answers 404 when the PDF can't be rendered
func NoteGeneratePDF(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	notes, err := d.Notes.ListForOwner(c.Request.Context(), user)
	if err != nil {
		respond.Internal(c, "Failed to lookup notes", err)
		return
	}

	pdf, err := service.RenderPDF(user, notes)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Failed to generate PDF")
		zap.L().Error("Failed to render PDF", zap.Error(err), zap.String("requestID", c.GetString(middleware.RequestIDKey)))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="notes.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// NoteMail queues the user's notes to their own email address
func NoteMail(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	notes, err := d.Notes.ListForOwner(c.Request.Context(), user)
	if err != nil {
		respond.Internal(c, "Failed to lookup notes", err)
		return
	}

	if err := service.MailNotes(d.MailQueue, user, notes); err != nil {
		if errors.Is(err, service.ErrQueueFull) || errors.Is(err, service.ErrQueueClosed) {
			respond.Error(c, http.StatusServiceUnavailable, "Mail queue is full. Please try again later")
			return
		}

		respond.Internal(c, "Failed to mail notes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note sent to mail Successfully!!",
	})
}
