package http

import (
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	pageCountHeader = "X-Page-Count"
	requestIDKey    = "request_id"
)

// requestIDMiddleware reuses the caller's X-Request-ID or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// sessionMiddleware stores the browser's cookie in the request context so
// the payroll API client can forward it
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := port.Session{
			Cookie:    c.GetHeader("Cookie"),
			RequestID: c.GetString(requestIDKey),
		}
		c.Request = c.Request.WithContext(port.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		keysAndValues := []interface{}{
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}
		if status >= 500 {
			s.logger.Error("HTTP request", keysAndValues...)
			return
		}
		s.logger.Info("HTTP request", keysAndValues...)
	}
}
