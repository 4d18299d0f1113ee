package validators

import (
	"net/mail"
	"strings"
)

const (
	ErrEmailEmpty   Error = "no email address provided"
	ErrEmailInvalid Error = "invalid email address provided"
	ErrEmailTooLong Error = "email address is too long"
)

func EmailValidator(e string) error {
	e = strings.TrimSpace(e)
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > 250 {
		return ErrEmailTooLong
	}

	// ParseAddress also accepts "Name <addr>", only a bare address is allowed here
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
