package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-signup-service/internal/domain/user"
	pkgerrors "user-signup-service/pkg/errors"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// The unique indexes back up the application-level uniqueness checks.
type UserSchema struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Name     string    `gorm:"not null"`
	Email    string    `gorm:"not null;uniqueIndex:uq_users_email"`
	CPF      string    `gorm:"column:cpf;type:varchar(11);not null;uniqueIndex:uq_users_cpf"`
	Birthday time.Time `gorm:"type:date;not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Create inserts a new user into the database and returns it with its assigned ID.
// A unique index violation is reported as *errors.UniqueViolationError.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:     u.Name,
		Email:    u.Email,
		CPF:      u.CPF,
		Birthday: dateOnly(u.Birthday),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if field, ok := uniqueViolationField(err); ok {
			r.log.Warn("unique constraint violated", zap.String("field", string(field)), zap.String("email", u.Email))
			value := u.Email
			if field == user.FieldCPF {
				value = u.CPF
			}
			return nil, pkgerrors.NewUniqueViolationError(string(field), value)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return toDomain(&model), nil
}

// GetByID retrieves a user from the database by their unique ID.
// It returns nil, nil when no user has the ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model), nil
}

// ExistsByCPF reports whether a user with the given CPF is stored.
func (r *UserRepoPG) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return r.existsBy(ctx, user.FieldCPF, cpf)
}

// ExistsByEmail reports whether a user with the given email is stored.
func (r *UserRepoPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, user.FieldEmail, email)
}

func (r *UserRepoPG) existsBy(ctx context.Context, field user.Field, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where(fmt.Sprintf("%s = ?", field), value).
		Count(&count).Error
	if err != nil {
		r.log.Error("failed to check user existence", zap.String("field", string(field)), zap.Error(err))
		return false, fmt.Errorf("failed to check %s existence: %w", field, err)
	}
	return count > 0, nil
}

// uniqueViolationField reports whether err is a unique index violation and,
// if so, which identity field caused it.
func uniqueViolationField(err error) (user.Field, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != uniqueViolationCode {
			return "", false
		}
		return fieldFromConstraint(pgErr.ConstraintName)
	}

	// SQLite reports "UNIQUE constraint failed: users.cpf".
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return fieldFromConstraint(msg)
	}
	return "", false
}

func fieldFromConstraint(s string) (user.Field, bool) {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "cpf"):
		return user.FieldCPF, true
	case strings.Contains(s, "email"):
		return user.FieldEmail, true
	default:
		return "", false
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		CPF:      m.CPF,
		Birthday: dateOnly(m.Birthday),
	}
}
