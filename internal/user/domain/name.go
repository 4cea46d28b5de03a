package domain

import "regexp"

// InvalidNameMessage is the message of the error returned by NewName.
const InvalidNameMessage = "Invalid name: The name must contain first and last name"

// At least two letter/mark/number tokens separated by a single hyphen or space.
// Unicode space separators such as U+00A0 count as spaces.
var nameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}]+([\p{Zs}\t\n\v\f\r\-][\p{L}\p{M}\p{N}]+)+$`)

// Name is a person's full name.
type Name struct {
	value string
}

// NewName validates value and wraps it in a Name.
func NewName(value string) (Name, error) {
	if value == "" || !nameRegex.MatchString(value) {
		return Name{}, &ValidationError{Message: InvalidNameMessage}
	}
	return Name{value: value}, nil
}

// Value returns the name as given.
func (n Name) Value() string {
	return n.value
}
