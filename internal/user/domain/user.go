package domain

// UserRecord is the persisted shape of a user. ID is empty until the record
// has been stored.
type UserRecord struct {
	ID    string
	Name  string
	Email string
}

// UserResponse is the API representation of a user.
type UserResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User is a validated, read-only user entity.
type User struct {
	id    string
	name  Name
	email Email
}

// NewUser builds a User from a record, validating its name and email.
func NewUser(record UserRecord) (*User, error) {
	name, err := NewName(record.Name)
	if err != nil {
		return nil, err
	}

	email, err := NewEmail(record.Email)
	if err != nil {
		return nil, err
	}

	return &User{
		id:    record.ID,
		name:  name,
		email: email,
	}, nil
}

// ID returns the identifier, empty when the user was never persisted.
func (u *User) ID() string {
	return u.id
}

// Name returns the user's name.
func (u *User) Name() string {
	return u.name.Value()
}

// Email returns the user's email.
func (u *User) Email() string {
	return u.email.Value()
}

// Response returns the API representation of the user.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:    u.id,
		Name:  u.Name(),
		Email: u.Email(),
	}
}
