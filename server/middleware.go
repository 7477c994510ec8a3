package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/logging"
)

const requestIDKey = "requestID"

// requestIDMiddleware propagates or assigns X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware writes one line per request, tagged with its id.
func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.WithTraceID(c.GetString(requestIDKey)).
			Request(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware allows every origin, method and header.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// timeoutMiddleware bounds the request context. Handlers observe the
// deadline through provider calls.
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// recoveryMiddleware turns a handler panic into a PANIC error response.
func recoveryMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := errors.RecoverPanic(r)
				logger.WithTraceID(c.GetString(requestIDKey)).Error("panic", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
