package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domain "user-signup-service/internal/domain/user"
	pkgerrors "user-signup-service/pkg/errors"
)

// ValidatorConfig configures the registration validator.
type ValidatorConfig struct {
	// StrictCPFChecksum enables check-digit verification on top of the
	// eleven-digit format check.
	StrictCPFChecksum bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// rule checks one field of a candidate and returns a violation message, or ""
// when the field is acceptable.
type rule struct {
	field string
	check func(v *Validator, u *domain.User) string
}

// rules run in this order; every field is checked even after an earlier failure.
var rules = []rule{
	{field: "name", check: (*Validator).checkName},
	{field: "email", check: (*Validator).checkEmail},
	{field: "cpf", check: (*Validator).checkCPF},
	{field: "birthday", check: (*Validator).checkBirthday},
}

// Validator enforces field-level constraints on a registration candidate.
type Validator struct {
	validate *validator.Validate
	strict   bool
	now      func() time.Time
}

// NewValidator creates a Validator with the "cpf" and "dotted_domain" tags registered.
func NewValidator(cfg ValidatorConfig) *Validator {
	v := &Validator{
		validate: validator.New(),
		strict:   cfg.StrictCPFChecksum,
		now:      cfg.Now,
	}
	if v.now == nil {
		v.now = time.Now
	}

	mustRegister(v.validate, "cpf", func(fl validator.FieldLevel) bool {
		if v.strict {
			return domain.IsValidCPF(fl.Field().String())
		}
		return domain.IsWellFormedCPF(fl.Field().String())
	})
	mustRegister(v.validate, "dotted_domain", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		at := strings.LastIndexByte(s, '@')
		if at < 0 {
			return false
		}
		domainPart := s[at+1:]
		dot := strings.IndexByte(domainPart, '.')
		return dot > 0 && dot < len(domainPart)-1
	})

	return v
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// Validate returns nil when u may be admitted, or a *errors.ValidationError
// listing every violation in rule order.
func (v *Validator) Validate(u *domain.User) error {
	if u == nil {
		return pkgerrors.NewValidationError(pkgerrors.Violation{Field: "user", Message: "must not be null"})
	}

	var violations []pkgerrors.Violation
	for _, r := range rules {
		if msg := r.check(v, u); msg != "" {
			violations = append(violations, pkgerrors.Violation{Field: r.field, Message: msg})
		}
	}

	if len(violations) > 0 {
		return pkgerrors.NewValidationError(violations...)
	}
	return nil
}

func (v *Validator) checkName(u *domain.User) string {
	return v.tagMessage(strings.TrimSpace(u.Name), "required")
}

func (v *Validator) checkEmail(u *domain.User) string {
	return v.tagMessage(u.Email, "required,email,dotted_domain")
}

func (v *Validator) checkCPF(u *domain.User) string {
	return v.tagMessage(u.CPF, "required,cpf")
}

func (v *Validator) checkBirthday(u *domain.User) string {
	if u.Birthday.IsZero() {
		return "must not be null"
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	birthday := time.Date(u.Birthday.Year(), u.Birthday.Month(), u.Birthday.Day(), 0, 0, 0, 0, time.UTC)
	if !birthday.Before(today) {
		return "must be a date in the past"
	}
	return ""
}

// tagMessage runs the validator tags against value and converts the first
// failing tag into a human-readable message.
func (v *Validator) tagMessage(value, tags string) string {
	err := v.validate.Var(value, tags)
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "is invalid"
	}

	switch validationErrors[0].Tag() {
	case "required":
		return "must not be blank"
	case "email", "dotted_domain":
		return "must be a well-formed email address"
	case "cpf":
		return "is not a valid CPF"
	default:
		return "is invalid"
	}
}
