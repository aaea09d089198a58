package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/google/uuid"
)

const (
	reasonMissingHeader   = "missing authorization header"
	reasonMalformedHeader = "invalid authorization header format"
	reasonInvalidToken    = "invalid or expired token"
)

// AuthError is returned by AccessGuard. It matches ErrUnauthorized and its
// message is safe to send to the client.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// Principal is the authenticated account behind a request.
type Principal struct {
	AccountID uuid.UUID
	Account   *models.Account
}

type SessionVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type accountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

type AccessGuard struct {
	sessions SessionVerifier
	accounts accountLookup
}

func NewAccessGuard(sessions SessionVerifier, accounts accountLookup) *AccessGuard {
	return &AccessGuard{sessions: sessions, accounts: accounts}
}

// Authenticate resolves an Authorization header of the form "Bearer <token>"
// to the account the token was issued for.
func (g *AccessGuard) Authenticate(ctx context.Context, authorization string) (*Principal, error) {
	if strings.TrimSpace(authorization) == "" {
		return nil, &AuthError{Reason: reasonMissingHeader}
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		return nil, &AuthError{Reason: reasonMalformedHeader}
	}

	accountID, err := g.sessions.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, &AuthError{Reason: reasonInvalidToken}
	}

	account, err := g.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, &AuthError{Reason: reasonInvalidToken}
		}
		return nil, err
	}

	return &Principal{AccountID: account.ID, Account: account}, nil
}
