package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

const keyLogger = "logger"

// WithLogger makes log available to later handlers via Logger.
func WithLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(keyLogger, log.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
		))
		c.Next()
	}
}

func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(keyLogger); ok {
		if log, ok := v.(*slog.Logger); ok {
			return log
		}
	}
	return slog.Default()
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		Logger(c).Info("request",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		)
	}
}

// Recovery answers panics with a 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c).Error("panic recovered",
			slog.String("panic", fmt.Sprint(recovered)),
			slog.String("stack", string(debug.Stack())),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
