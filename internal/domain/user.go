// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUsernameLen = 36

var (
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser validates an identity resolved at the auth boundary. The ID
// comes from the credential, never minted here.
func NewUser(id UserID, username string) (User, error) {
	if id == "" {
		return User{}, ErrUserIDEmpty
	}
	if len(username) == 0 {
		return User{}, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return User{}, ErrUsernameTooLong
	}
	return User{ID: id, Username: username}, nil
}
