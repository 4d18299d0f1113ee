package validators

const (
	ErrPasswordTooShort Error = "password must be at least 8 characters long"
	ErrPasswordTooLong  Error = "password is too long"
	ErrPasswordEmpty    Error = "no password provided"
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > 255 {
		return ErrPasswordTooLong
	}

	return nil
}
