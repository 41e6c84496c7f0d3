package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with its status, size and latency.
// Health checks and the swagger UI are not logged.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/health" || strings.HasPrefix(path, "/swagger/") {
			return
		}

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
			"latency":   time.Since(start).Round(time.Millisecond),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
