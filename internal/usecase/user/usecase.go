package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "user-signup-service/internal/domain/user"
	pkgerrors "user-signup-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, a cached decorator) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error) // Persist a new user and return it with its ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)      // Retrieve user by ID; nil, nil when absent
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)        // Report whether a user holds the CPF
	ExistsByEmail(ctx context.Context, email string) (bool, error)    // Report whether a user holds the email
}

// Service implements registration and lookup of users.
type Service struct {
	repo      Repository  // Repository for data access
	validator *Validator  // Field-level checks run before any repository call
	metrics   Metrics     // Registration outcome counters
	log       *zap.Logger // Logger for structured logging
}

var _ Usecase = (*Service)(nil)

// New creates a new Service. A nil metrics disables outcome counting.
func New(r Repository, v *Validator, m Metrics, log *zap.Logger) *Service {
	if m == nil {
		m = noopMetrics{}
	}
	return &Service{repo: r, validator: v, metrics: m, log: log}
}

// Register admits a new user. The CPF is checked for uniqueness strictly
// before the email, so a candidate duplicating both reports the CPF and the
// email is never queried. The repository is written exactly once, and only
// when every check passes.
func (s *Service) Register(ctx context.Context, in RegisterUserRequest) (*User, error) {
	s.log.Info("registering user", zap.String("name", in.Name), zap.String("email", in.Email))

	candidate := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		CPF:      in.CPF,
		Birthday: in.Birthday,
	}

	if err := s.validator.Validate(candidate); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		s.metrics.RegistrationRejected("validation")
		return nil, err
	}

	exists, err := s.repo.ExistsByCPF(ctx, candidate.CPF)
	if err != nil {
		s.log.Error("failed to check existing cpf", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate cpf uniqueness", err)
	}
	if exists {
		s.log.Warn("cpf already exists")
		s.metrics.RegistrationRejected(string(domain.FieldCPF))
		return nil, pkgerrors.NewUniqueViolationError(string(domain.FieldCPF), candidate.CPF)
	}

	exists, err = s.repo.ExistsByEmail(ctx, candidate.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", candidate.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if exists {
		s.log.Warn("email already exists", zap.String("email", candidate.Email))
		s.metrics.RegistrationRejected(string(domain.FieldEmail))
		return nil, pkgerrors.NewUniqueViolationError(string(domain.FieldEmail), candidate.Email)
	}

	stored, err := s.repo.Create(ctx, candidate)
	if err != nil {
		// A concurrent signup can pass both checks and lose at the unique index.
		var unique *pkgerrors.UniqueViolationError
		if errors.As(err, &unique) {
			s.log.Warn("unique constraint rejected user", zap.String("field", unique.Field))
			s.metrics.RegistrationRejected(unique.Field)
			return nil, unique
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	s.metrics.UserRegistered()
	s.log.Info("user registered", zap.Int64("id", stored.ID))
	return toDTO(stored), nil
}

// GetUser retrieves a user by ID. An ID with no stored record yields a
// *errors.NotFoundError.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		s.log.Debug("user not found", zap.Int64("id", in.ID))
		return nil, pkgerrors.NewNotFoundError(domain.EntityName, in.ID)
	}

	return toDTO(u), nil
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		CPF:      u.CPF,
		Birthday: u.Birthday,
	}
}
