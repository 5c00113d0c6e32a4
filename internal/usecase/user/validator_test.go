package user

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-signup-service/internal/domain/user"
	pkgerrors "user-signup-service/pkg/errors"
)

var fixedNow = time.Date(2024, time.May, 1, 15, 30, 0, 0, time.UTC)

func newTestValidator(strict bool) *Validator {
	return NewValidator(ValidatorConfig{
		StrictCPFChecksum: strict,
		Now:               func() time.Time { return fixedNow },
	})
}

func validCandidate() *domain.User {
	return &domain.User{
		Name:     "Bruce Wayne",
		Email:    "bwayne@wayneenterprises.com",
		CPF:      "27854636419",
		Birthday: time.Date(1972, time.February, 19, 0, 0, 0, 0, time.UTC),
	}
}

func requireViolation(t *testing.T, err error, field string) *pkgerrors.ValidationError {
	t.Helper()
	var vErr *pkgerrors.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
	assert.True(t, vErr.HasField(field), "expected violation on %s, got %v", field, vErr.Violations)
	return vErr
}

func TestValidator_ValidCandidate(t *testing.T) {
	v := newTestValidator(true)

	assert.NoError(t, v.Validate(validCandidate()))
}

func TestValidator_Name(t *testing.T) {
	v := newTestValidator(true)

	for _, name := range []string{"", "   ", "\t\n"} {
		u := validCandidate()
		u.Name = name

		vErr := requireViolation(t, v.Validate(u), "name")
		assert.Len(t, vErr.Violations, 1)
		assert.Equal(t, "must not be blank", vErr.Violations[0].Message)
	}
}

func TestValidator_Email(t *testing.T) {
	v := newTestValidator(true)

	tests := []struct {
		name  string
		email string
		msg   string
	}{
		{name: "empty", email: "", msg: "must not be blank"},
		{name: "digits only", email: "1111111111", msg: "must be a well-formed email address"},
		{name: "contains spaces", email: "not an email", msg: "must be a well-formed email address"},
		{name: "missing local part", email: "email.com", msg: "must be a well-formed email address"},
		{name: "domain without dot", email: "bruce@localhost", msg: "must be a well-formed email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validCandidate()
			u.Email = tt.email

			vErr := requireViolation(t, v.Validate(u), "email")
			assert.Equal(t, tt.msg, vErr.Violations[0].Message)
		})
	}
}

func TestValidator_CPF(t *testing.T) {
	tests := []struct {
		name   string
		cpf    string
		strict bool
		valid  bool
	}{
		{name: "empty", cpf: "", strict: true, valid: false},
		{name: "ten digits", cpf: "1111111111", strict: true, valid: false},
		{name: "letters", cpf: "abcdfgh", strict: true, valid: false},
		{name: "bad checksum strict", cpf: "27854636410", strict: true, valid: false},
		{name: "bad checksum lenient", cpf: "27854636410", strict: false, valid: true},
		{name: "letters lenient", cpf: "abcdfgh", strict: false, valid: false},
		{name: "repeated digits strict", cpf: "11111111111", strict: true, valid: false},
		{name: "valid strict", cpf: "27854636419", strict: true, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(tt.strict)
			u := validCandidate()
			u.CPF = tt.cpf

			err := v.Validate(u)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			requireViolation(t, err, "cpf")
		})
	}
}

func TestValidator_Birthday(t *testing.T) {
	v := newTestValidator(true)

	tests := []struct {
		name     string
		birthday time.Time
		valid    bool
	}{
		{name: "missing", birthday: time.Time{}, valid: false},
		{name: "today", birthday: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), valid: false},
		{name: "later today", birthday: time.Date(2024, time.May, 1, 23, 0, 0, 0, time.UTC), valid: false},
		{name: "tomorrow", birthday: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), valid: false},
		{name: "far future", birthday: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC), valid: false},
		{name: "yesterday", birthday: time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validCandidate()
			u.Birthday = tt.birthday

			err := v.Validate(u)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			requireViolation(t, err, "birthday")
		})
	}
}

func TestValidator_AccumulatesViolationsInRuleOrder(t *testing.T) {
	v := newTestValidator(true)

	err := v.Validate(&domain.User{})

	var vErr *pkgerrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Violations, 4)
	assert.Equal(t, "name", vErr.Violations[0].Field)
	assert.Equal(t, "email", vErr.Violations[1].Field)
	assert.Equal(t, "cpf", vErr.Violations[2].Field)
	assert.Equal(t, "birthday", vErr.Violations[3].Field)
}

func TestValidator_NilCandidate(t *testing.T) {
	v := newTestValidator(true)

	requireViolation(t, v.Validate(nil), "user")
}
