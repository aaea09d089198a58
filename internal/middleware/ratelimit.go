package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/dimitrije/securevault-api/internal/ratelimit"
	"github.com/m1z23r/drift/pkg/drift"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimit counts requests per client IP, resolved with ClientIP. When the
// limiter itself fails the request is let through.
func RateLimit(limiter RateLimiter, trustedProxies int, logger *slog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		ctx := c.Request.Context()

		decision, err := limiter.Allow(ctx, "ip:"+ClientIP(c.Request, trustedProxies))
		if err != nil {
			logger.WarnContext(ctx, "rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		h := c.Response.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			_ = c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClientIP returns the address trustedProxies hops in from the connection:
// with one proxy that is the right-most X-Forwarded-For entry, which the
// proxy appended itself. Entries further left are client supplied and never
// used. With no trusted proxies, or no header, it is the remote address.
func ClientIP(r *http.Request, trustedProxies int) string {
	remote := remoteHost(r)
	if trustedProxies <= 0 {
		return remote
	}

	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}
	if len(hops) == 0 {
		return remote
	}

	i := len(hops) - trustedProxies
	if i < 0 {
		i = 0
	}
	return hops[i]
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
