package di

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-signup-service/cmd/api/infrastructure"
	"user-signup-service/internal/adapter/cache"
	"user-signup-service/internal/adapter/db/postgres"
	ginhandler "user-signup-service/internal/adapter/gin/handler"
	"user-signup-service/internal/adapter/gin/middleware"
	"user-signup-service/internal/adapter/gin/router"
	"user-signup-service/internal/adapter/repository/cached"
	"user-signup-service/internal/config"
	"user-signup-service/internal/metrics"
	"user-signup-service/internal/usecase/user"
	redisclient "user-signup-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DB           *gorm.DB
	RedisClient  *redisclient.Client
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	UserUC       user.Usecase
	RateLimiter  *middleware.RateLimiter
	GinHandler   *ginhandler.UserHandler
	HealthChecks map[string]router.Pinger
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	healthChecks := map[string]router.Pinger{
		"database": infrastructure.DBPinger{DB: db},
	}

	// Initialize repository, cached when Redis is available
	var repo user.Repository = postgres.NewUserRepoPG(db, l)
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(repo, userCache, l)

		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			m.RateLimitedRequests,
			l,
		)
		healthChecks["redis"] = rdb
	}

	// Initialize use case
	validator := user.NewValidator(user.ValidatorConfig{
		StrictCPFChecksum: cfg.Validation.StrictCPFChecksum,
	})
	userUC := user.New(repo, validator, m, l)

	// Initialize Gin handler
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:       cfg,
		Logger:       l,
		DB:           db,
		RedisClient:  rdb,
		Registry:     registry,
		Metrics:      m,
		UserUC:       userUC,
		RateLimiter:  rateLimiter,
		GinHandler:   ginHandler,
		HealthChecks: healthChecks,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
