//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	usecase "user-signup-service/internal/usecase/user"
	"user-signup-service/migrations"
	pkgerrors "user-signup-service/pkg/errors"
)

// setupPostgres starts a PostgreSQL container, applies the embedded
// migrations and returns a gorm handle to it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("signup"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	version, err := migrations.Up(connStr)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)

	db, err := gorm.Open(pgdriver.Open(connStr), &gorm.Config{})
	require.NoError(t, err)

	return db
}

func TestUserRepoPG_Integration_ConstraintBackstop(t *testing.T) {
	db := setupPostgres(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, bruceWayne())
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	dupCPF := bruceWayne()
	dupCPF.Email = "other@wayneenterprises.com"
	_, err = repo.Create(ctx, dupCPF)
	var unique *pkgerrors.UniqueViolationError
	require.True(t, errors.As(err, &unique))
	assert.Equal(t, "cpf", unique.Field)

	dupEmail := bruceWayne()
	dupEmail.CPF = "52998224725"
	_, err = repo.Create(ctx, dupEmail)
	require.True(t, errors.As(err, &unique))
	assert.Equal(t, "email", unique.Field)
}

func TestUserRepoPG_Integration_ConcurrentSignupsAdmitOne(t *testing.T) {
	db := setupPostgres(t)
	log := zaptest.NewLogger(t)
	svc := usecase.New(NewUserRepoPG(db, log), usecase.NewValidator(usecase.ValidatorConfig{StrictCPFChecksum: true}), nil, log)

	const workers = 8
	var succeeded, rejected atomic.Int32

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := svc.Register(context.Background(), usecase.RegisterUserRequest{
				Name:     "Bruce Wayne",
				Email:    "bwayne@wayneenterprises.com",
				CPF:      "27854636419",
				Birthday: time.Date(1972, time.February, 19, 0, 0, 0, 0, time.UTC),
			})

			var unique *pkgerrors.UniqueViolationError
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.As(err, &unique):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())

	var count int64
	require.NoError(t, db.Model(&UserSchema{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
