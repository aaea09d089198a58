package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const PrincipalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*services.Principal, error)
}

func Auth(guard Authenticator, logger *slog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		principal, err := guard.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			var authErr *services.AuthError
			if errors.As(err, &authErr) {
				c.Unauthorized(authErr.Reason)
				return
			}
			logger.ErrorContext(c.Request.Context(), "failed to authenticate request", "error", err)
			c.InternalServerError("failed to authenticate request")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal stored by Auth, or nil on routes it
// does not guard.
func GetPrincipal(c *drift.Context) *services.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(*services.Principal); ok {
			return p
		}
	}
	return nil
}

func GetAccountID(c *drift.Context) uuid.UUID {
	if p := GetPrincipal(c); p != nil {
		return p.AccountID
	}
	return uuid.Nil
}
