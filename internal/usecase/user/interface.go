package user

import "context"

// Usecase defines the interface for user registration and lookup.
type Usecase interface {
	Register(ctx context.Context, in RegisterUserRequest) (*User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
}

// Metrics records registration outcomes.
type Metrics interface {
	UserRegistered()
	RegistrationRejected(reason string)
}

type noopMetrics struct{}

func (noopMetrics) UserRegistered()             {}
func (noopMetrics) RegistrationRejected(string) {}
