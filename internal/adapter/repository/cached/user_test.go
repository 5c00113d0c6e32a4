package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-signup-service/internal/adapter/cache"
	domain "user-signup-service/internal/domain/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func setup(t *testing.T) (*CachedUserRepository, *MockRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	logger := zaptest.NewLogger(t)
	dbRepo := new(MockRepository)
	repo := NewCachedUserRepository(dbRepo, cache.NewRedisUserCache(client, time.Minute, logger), logger)
	return repo.(*CachedUserRepository), dbRepo, mr
}

func storedUser() *domain.User {
	return &domain.User{
		ID:       1,
		Name:     "Bruce Wayne",
		Email:    "bwayne@wayneenterprises.com",
		CPF:      "27854636419",
		Birthday: time.Date(1972, time.February, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestCachedUserRepository_GetByID_MissThenHit(t *testing.T) {
	repo, dbRepo, _ := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", mock.Anything, int64(1)).Return(storedUser(), nil).Once()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, storedUser(), first)
	assert.Equal(t, first, second)
	dbRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCachedUserRepository_GetByID_NotFoundIsNotCached(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	dbRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)

	u, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, mr.Exists("user:2"))
}

func TestCachedUserRepository_GetByID_CacheDownFallsBack(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	mr.Close()

	dbRepo.On("GetByID", mock.Anything, int64(1)).Return(storedUser(), nil)

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, storedUser(), u)
}

func TestCachedUserRepository_Create_WarmsCache(t *testing.T) {
	repo, dbRepo, mr := setup(t)
	ctx := context.Background()

	candidate := storedUser()
	candidate.ID = 0
	dbRepo.On("Create", mock.Anything, candidate).Return(storedUser(), nil)

	created, err := repo.Create(ctx, candidate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, mr.Exists("user:1"))

	// Served from cache, the DB is not asked
	u, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created, u)
	dbRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCachedUserRepository_ExistsDelegates(t *testing.T) {
	repo, dbRepo, _ := setup(t)
	ctx := context.Background()

	dbRepo.On("ExistsByCPF", ctx, "27854636419").Return(true, nil)
	dbRepo.On("ExistsByEmail", ctx, "bwayne@wayneenterprises.com").Return(false, nil)

	exists, err := repo.ExistsByCPF(ctx, "27854636419")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "bwayne@wayneenterprises.com")
	require.NoError(t, err)
	assert.False(t, exists)

	dbRepo.AssertExpectations(t)
}
