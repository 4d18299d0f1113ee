package model

import "time"

// UserView is the only shape a user is ever serialized in. It never
// carries the password hash.
type UserView struct {
	ID              string `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

type NoteView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     time.Time `json:"due_date"`
	Priority    int       `json:"priority"`
	IsComplete  bool      `json:"is_complete"`
	IsEmailSend bool      `json:"is_email_send"`
	User        *UserView `json:"user,omitempty"`
}

func (u *User) View() UserView {
	return UserView{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
	}
}

func (n *Note) View() NoteView {
	v := NoteView{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
		DueDate:     n.DueDate,
		Priority:    n.Priority,
		IsComplete:  n.IsComplete,
		IsEmailSend: n.IsEmailSend,
	}

	// Only set when the owner was preloaded
	if n.User.ID != "" {
		u := n.User.View()
		v.User = &u
	}

	return v
}

func NoteViews(notes []Note) []NoteView {
	views := make([]NoteView, len(notes))
	for i := range notes {
		views[i] = notes[i].View()
	}

	return views
}
