package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"bitwise74/notes-api/internal/model"
)

const dateLayout = "Jan 2, 2006 15:04 MST"

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.UTC().Format(dateLayout)
	},
}

var (
	verificationTmpl = template.Must(template.New("verification").Funcs(funcs).Parse(`<p>Hi {{.Name}},</p>
<p>Click <a href="{{.Link}}">here</a> to verify your email address.</p>
<p>The link expires in {{.ExpiresIn}}.</p>`))

	passwordResetTmpl = template.Must(template.New("password_reset").Funcs(funcs).Parse(`<p>Hi {{.Name}},</p>
<p>Someone asked to reset the password of your account. Use <a href="{{.Link}}">this link</a> to choose a new one.</p>
<p>If it wasn't you, you can ignore this mail.</p>`))

	reminderTmpl = template.Must(template.New("reminder").Funcs(funcs).Parse(`<p>Hello {{.Name}},</p>
<p>Your note <b>{{.Title}}</b> is due on {{date .DueDate}}.</p>
<p><a href="{{.Link}}">Open the note</a></p>`))

	notesTmpl = template.Must(template.New("notes").Funcs(funcs).Parse(`<html>
<head><meta charset="utf-8"><title>Notes</title></head>
<body>
<h1>Notes of {{.Name}}</h1>
{{if not .Notes}}<p>No notes yet.</p>{{end}}
<table border="1" cellpadding="4">
<tr><th>Title</th><th>Content</th><th>Created</th><th>Due</th><th>Priority</th><th>Complete</th></tr>
{{range .Notes}}<tr><td>{{.Title}}</td><td>{{.Content}}</td><td>{{date .CreatedAt}}</td><td>{{date .DueDate}}</td><td>{{.Priority}}</td><td>{{if .IsComplete}}yes{{else}}no{{end}}</td></tr>
{{end}}</table>
</body>
</html>`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template, %w", t.Name(), err)
	}

	return buf.String(), nil
}

// VerificationMail builds the mail holding the email verification link
func VerificationMail(u *model.User, link string, expiresIn time.Duration) (*Mail, error) {
	body, err := render(verificationTmpl, map[string]any{
		"Name":      u.FirstName,
		"Link":      link,
		"ExpiresIn": expiresIn.String(),
	})
	if err != nil {
		return nil, err
	}

	return &Mail{
		To:      u.Email,
		Subject: "Verify your email",
		HTML:    body,
	}, nil
}

func PasswordResetMail(u *model.User, link string) (*Mail, error) {
	body, err := render(passwordResetTmpl, map[string]any{
		"Name": u.FirstName,
		"Link": link,
	})
	if err != nil {
		return nil, err
	}

	return &Mail{
		To:      u.Email,
		Subject: "Reset your password",
		HTML:    body,
	}, nil
}

// ReminderMail builds the due date reminder for n. n.User must be loaded.
func ReminderMail(n *model.Note, link string) (*Mail, error) {
	body, err := render(reminderTmpl, map[string]any{
		"Name":    n.User.FullName(),
		"Title":   n.Title,
		"DueDate": n.DueDate,
		"Link":    link,
	})
	if err != nil {
		return nil, err
	}

	return &Mail{
		To:      n.User.Email,
		Subject: "Note reminder",
		HTML:    body,
	}, nil
}

// NotesHTML renders a note collection as a standalone HTML document
func NotesHTML(owner *model.User, notes []model.Note) (string, error) {
	return render(notesTmpl, map[string]any{
		"Name":  owner.FirstName + " " + owner.LastName,
		"Notes": notes,
	})
}
