// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

// Error is returned by every validator so callers can tell user input
// problems apart from internal failures with errors.As
type Error string

func (e Error) Error() string {
	return string(e)
}
