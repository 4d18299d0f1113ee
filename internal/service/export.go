package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"bitwise74/notes-api/internal/model"

	"github.com/go-pdf/fpdf"
)

// CSVHeader is the first row of every CSV export
var CSVHeader = []string{
	"id", "title", "content", "created_at", "due_date", "priority", "is_complete",
	"user_id", "user_first_name", "user_last_name", "user_email",
}

// WriteCSV writes one row per note with the owner flattened in. Owners
// must be preloaded.
func WriteCSV(w io.Writer, notes []model.Note) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, n := range notes {
		err := cw.Write([]string{
			n.ID,
			n.Title,
			n.Content,
			n.CreatedAt.UTC().Format(time.RFC3339Nano),
			n.DueDate.UTC().Format(time.RFC3339Nano),
			strconv.Itoa(n.Priority),
			strconv.FormatBool(n.IsComplete),
			n.UserID,
			n.User.FirstName,
			n.User.LastName,
			n.User.Email,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// RenderPDF lays the notes out one after another on A4 pages
func RenderPDF(owner *model.User, notes []model.Note) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Notes", true)
	pdf.SetAuthor(owner.FirstName+" "+owner.LastName, true)

	// Core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("Notes of "+owner.FirstName+" "+owner.LastName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(notes) == 0 {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 8, "No notes yet.", "", 1, "L", false, 0, "")
	}

	for _, n := range notes {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, tr(n.Title), "", "L", false)

		status := "open"
		if n.IsComplete {
			status = "complete"
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, fmt.Sprintf("Due %s | Priority %d | %s",
			n.DueDate.UTC().Format(dateLayout), n.Priority, status), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(n.Content), "", "L", false)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF, %w", err)
	}

	return buf.Bytes(), nil
}

// MailNotes queues the notes rendered as HTML to the owner's own address,
// with the CSV export attached
func MailNotes(q *MailQueue, owner *model.User, notes []model.Note) error {
	body, err := NotesHTML(owner, notes)
	if err != nil {
		return err
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, notes); err != nil {
		return fmt.Errorf("failed to build CSV attachment, %w", err)
	}

	return q.Enqueue(&Mail{
		To:          owner.Email,
		Subject:     "Your notes",
		HTML:        body,
		Attachments: []Attachment{{
			Name:        "notes.csv",
			ContentType: "text/csv",
			Data:        csvBuf.Bytes(),
		}},
	})
}
