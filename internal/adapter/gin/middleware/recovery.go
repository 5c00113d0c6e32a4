package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-signup-service/internal/adapter/gin/handler"
	"user-signup-service/pkg/logger"
)

// Recovery returns a Gin middleware that turns a handler panic into a 500
// error body.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in handler",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				handler.AbortWithError(c, http.StatusInternalServerError, "An internal error occurred")
			}
		}()

		c.Next()
	}
}
