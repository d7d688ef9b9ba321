package user

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when an email and password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicate is returned when the email or username is already taken.
	ErrDuplicate = errors.New("a user with that email or username already exists")
)

// User is an account that owns recipes and membership sets.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	Username     string `json:"username" db:"username"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsStaff      bool   `json:"-" db:"is_staff"`
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
