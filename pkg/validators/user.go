package validators

import "strings"

const (
	ErrFirstNameEmpty   Error = "first name can't be empty"
	ErrLastNameEmpty    Error = "last name can't be empty"
	ErrFirstNameTooLong Error = "first name is too long"
	ErrLastNameTooLong  Error = "last name is too long"
)

const maxNameLen = 250

func NameValidator(first, last string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	switch {
	case first == "":
		return ErrFirstNameEmpty
	case last == "":
		return ErrLastNameEmpty
	case len([]rune(first)) > maxNameLen:
		return ErrFirstNameTooLong
	case len([]rune(last)) > maxNameLen:
		return ErrLastNameTooLong
	}

	return nil
}
