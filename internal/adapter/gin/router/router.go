package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-signup-service/internal/adapter/gin/handler"
	"user-signup-service/internal/adapter/gin/middleware"
	"user-signup-service/internal/metrics"
	"user-signup-service/pkg/logger"
)

// SwaggerSpecPath is where the OpenAPI document is served.
const SwaggerSpecPath = "/docs/user.swagger.json"

// Pinger is a dependency whose liveness /health reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures SetupRouter. Nil fields disable the matching feature.
type Options struct {
	ServiceName string
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	// SwaggerFile is the path of the OpenAPI document on disk.
	SwaggerFile string
	// HealthChecks maps a dependency name to its pinger.
	HealthChecks map[string]Pinger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log, opts.Metrics))
	router.Use(middleware.Recovery(log))
	router.Use(opts.RateLimiter.Handler())

	router.GET("/health", healthHandler(opts.ServiceName, opts.HealthChecks))

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.SwaggerFile != "" {
		router.StaticFile(SwaggerSpecPath, opts.SwaggerFile)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerSpecPath))))
	}

	users := router.Group(handler.UserBasePath)
	{
		users.POST("/signup", userHandler.Signup)
		users.GET("/:id", userHandler.GetUser)
	}

	router.NoRoute(func(c *gin.Context) {
		handler.AbortWithError(c, http.StatusNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router
}

func healthHandler(service string, checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":       state,
			"service":      service,
			"dependencies": deps,
		})
	}
}
