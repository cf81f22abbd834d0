package models

import "encoding/json"

// RoleAdmin is the only role granted access to admin screens
const RoleAdmin = "admin"

// User is the record returned by the current-user and auth endpoints
type User struct {
	ID        ID     `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	CreatedAt string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// UnmarshalJSON accepts "_id" and "created_at" as alternative keys
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoID        ID     `json:"_id"`
		CreatedAtSnake string `json:"created_at"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.ID = firstID(u.ID, aux.MongoID)
	u.CreatedAt = firstString(u.CreatedAt, aux.CreatedAtSnake)
	return nil
}

// IsAdmin reports whether the role is exactly "admin"
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RoleLabel returns the role for display, "User" when the backend sent none
func (u *User) RoleLabel() string {
	if u == nil || u.Role == "" {
		return "User"
	}
	return u.Role
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the data of a successful login or register response.
//
// Some backends return the user under "user", others return it as the data itself.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// DecodeAuthResult reads the token and user from auth response data
func DecodeAuthResult(data json.RawMessage) (*AuthResult, error) {
	var res AuthResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		user, err := DecodeUser(data)
		if err != nil {
			return nil, err
		}
		res.User = user
	}
	return &res, nil
}

// DecodeUser reads a user from "data.user", or from data itself.
//
// It returns nil when neither form carries a user.
func DecodeUser(data json.RawMessage) (*User, error) {
	var wrapped struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	if user.ID.IsZero() && user.Email == "" && user.Name == "" {
		return nil, nil
	}
	return &user, nil
}
