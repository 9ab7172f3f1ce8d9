package types

import (
	"fmt"
	"strings"
)

// Role is a user's authorization level.
type Role string

// User roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(s)); r {
	case RoleAdmin, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidRole)
}

// User is an authenticated dashboard user.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// LoginResponse is the body returned by POST /auth/login. The session
// itself travels in a cookie.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// MinPasswordLength is the shortest password CreateUserData accepts.
const MinPasswordLength = 6

// CreateUserData is the body of POST /auth/create-user.
type CreateUserData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Validate checks the fields the dashboard checks before submitting.
func (d CreateUserData) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return fmt.Errorf("%q: %w", d.Email, ErrInvalidEmail)
	}
	if len(d.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if d.Role != "" {
		if _, err := ParseRole(string(d.Role)); err != nil {
			return err
		}
	}
	return nil
}
