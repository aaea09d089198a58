package middleware

import (
	"log/slog"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
)

func RequestLogger(logger *slog.Logger, trustedProxies int) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()

		c.Next()

		logger.InfoContext(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", ClientIP(c.Request, trustedProxies),
			"duration", time.Since(start),
		)
	}
}
