package services

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
)

const uniqueViolation = "23505"

// NewAccount holds the fields persisted by AccountStore.Create.
type NewAccount struct {
	Name                 string
	Email                string
	PasswordHash         string
	PendingCode          OTPCode
	PendingCodeExpiresAt time.Time
}

// AccountStore persists accounts. Email uniqueness is enforced by the
// accounts_email_key constraint, not by a read before the insert.
type AccountStore struct {
	db *database.DB
}

func NewAccountStore(db *database.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, in NewAccount) (*models.Account, error) {
	var account models.Account
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash, pending_code, pending_code_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, verified, pending_code, pending_code_expires_at, created_at, updated_at
	`, in.Name, in.Email, in.PasswordHash, string(in.PendingCode), in.PendingCodeExpiresAt).Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Verified,
		&account.PendingCode, &account.PendingCodeExpiresAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, pkgerrors.Wrap(err, "failed to create account")
	}
	return &account, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, verified, pending_code, pending_code_expires_at, created_at, updated_at
		FROM accounts WHERE email = $1
	`, email).Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Verified,
		&account.PendingCode, &account.PendingCodeExpiresAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to get account by email")
	}
	return &account, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, verified, pending_code, pending_code_expires_at, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id).Scan(
		&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Verified,
		&account.PendingCode, &account.PendingCodeExpiresAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to get account by id")
	}
	return &account, nil
}

// MarkVerified flips verified and clears the pending code, but only while
// code is still the stored one. It returns false when nothing matched, which
// covers a concurrent verify or resend winning the race.
func (s *AccountStore) MarkVerified(ctx context.Context, id uuid.UUID, code OTPCode) (bool, error) {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE accounts
		SET verified = TRUE, pending_code = NULL, pending_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND pending_code = $2 AND verified = FALSE
	`, id, string(code))
	if err != nil {
		return false, pkgerrors.Wrap(err, "failed to mark account verified")
	}
	return result.RowsAffected() == 1, nil
}

// SetPendingCode replaces the outstanding code of an unverified account.
func (s *AccountStore) SetPendingCode(ctx context.Context, id uuid.UUID, code OTPCode, expiresAt time.Time) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE accounts
		SET pending_code = $1, pending_code_expires_at = $2, updated_at = NOW()
		WHERE id = $3 AND verified = FALSE
	`, string(code), expiresAt, id)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to set pending code")
	}
	if result.RowsAffected() == 0 {
		return ErrAlreadyVerified
	}
	return nil
}

// ForceVerify marks the account with email verified without a code. It
// reports false when the account was already verified.
func (s *AccountStore) ForceVerify(ctx context.Context, email string) (bool, error) {
	var wasVerified bool
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE accounts a
		SET verified = TRUE, pending_code = NULL, pending_code_expires_at = NULL, updated_at = NOW()
		FROM accounts prev
		WHERE a.id = prev.id AND a.email = $1
		RETURNING prev.verified
	`, email).Scan(&wasVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrAccountNotFound
		}
		return false, pkgerrors.Wrap(err, "failed to force verify account")
	}
	return !wasVerified, nil
}
