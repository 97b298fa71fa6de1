package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

var redactedHeaders = map[string]struct{}{
	"Authorization": {},
	"Cookie":        {},
}

// RequestLogger dumps every incoming request at debug level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		var headers []string
		for name, values := range c.Request.Header {
			if _, ok := redactedHeaders[name]; ok {
				headers = append(headers, name+": [redacted]")
				continue
			}
			for _, value := range values {
				headers = append(headers, name+": "+value)
			}
		}

		body := string(bodyBytes)
		if strings.Contains(body, `"password"`) {
			body = "[redacted]"
		}

		Logger(c).Debug("incoming request",
			slog.String("query", c.Request.URL.RawQuery),
			slog.String("headers", strings.Join(headers, "\n")),
			slog.String("body", body),
		)

		c.Next()
	}
}
