package domain

import "regexp"

// InvalidEmailMessage is the message of the error returned by NewEmail.
const InvalidEmailMessage = "Invalid email"

var emailRegex = regexp.MustCompile(`^(.+)@(.+)$`)

// Email is a loosely checked e-mail address.
type Email struct {
	value string
}

// NewEmail validates value and wraps it in an Email.
func NewEmail(value string) (Email, error) {
	if !emailRegex.MatchString(value) {
		return Email{}, &ValidationError{Message: InvalidEmailMessage}
	}
	return Email{value: value}, nil
}

// Value returns the address as given.
func (e Email) Value() string {
	return e.value
}
