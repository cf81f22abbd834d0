package session

import "errors"

var (
	// ErrNotAuthenticated is returned by guards when no user is signed in
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrNotAdmin is returned by admin guards when the user is not an admin
	ErrNotAdmin = errors.New("admin access required")
)

// AuthError is a rejected login or registration
type AuthError struct {
	Op         string
	StatusCode int
	Message    string
}

// Error returns the backend message, or a generic text when there is none
func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Op + " failed"
}
