package user

import "time"

// EntityName is the name used when reporting a missing user.
const EntityName = "User"

// User represents a registered user.
type User struct {
	ID       int64     // ID is assigned by the store on creation and never changes
	Name     string    // Name is the full name of the user
	Email    string    // Email is unique across all users
	CPF      string    // CPF is the Brazilian taxpayer number, unique across all users
	Birthday time.Time // Birthday is a calendar date (time part is zero, UTC)
}

// Field identifies a user attribute that carries a uniqueness constraint.
type Field string

const (
	FieldCPF   Field = "cpf"
	FieldEmail Field = "email"
)
