package user

import "time"

// RegisterUserRequest represents the payload of a signup.
// Birthday is the zero time when the client omitted it.
type RegisterUserRequest struct {
	Name     string
	Email    string
	CPF      string
	Birthday time.Time
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID       int64
	Name     string
	Email    string
	CPF      string
	Birthday time.Time
}
