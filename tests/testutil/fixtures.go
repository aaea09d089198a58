package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateAccount inserts a verified account with a placeholder password digest
func (f *Fixtures) CreateAccount(t *testing.T, opts ...AccountOption) *models.Account {
	t.Helper()
	f.counter++

	account := &models.Account{
		Name:         fmt.Sprintf("Test Account %d", f.counter),
		Email:        fmt.Sprintf("account%d@example.com", f.counter),
		PasswordHash: "not-a-real-digest",
		Verified:     true,
	}

	for _, opt := range opts {
		opt(account)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (name, email, password_hash, verified, pending_code, pending_code_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, account.Name, account.Email, account.PasswordHash, account.Verified,
		account.PendingCode, account.PendingCodeExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return account
}

// AccountOption configures a test account
type AccountOption func(*models.Account)

// WithEmail sets the account's email
func WithEmail(email string) AccountOption {
	return func(a *models.Account) {
		a.Email = email
	}
}

// WithPasswordHash sets the stored password digest
func WithPasswordHash(digest string) AccountOption {
	return func(a *models.Account) {
		a.PasswordHash = digest
	}
}

// Unverified leaves the account awaiting verification with the given code
func Unverified(code string, expiresAt time.Time) AccountOption {
	return func(a *models.Account) {
		a.Verified = false
		a.PendingCode = &code
		a.PendingCodeExpiresAt = &expiresAt
	}
}

// CreateVaultRecord inserts a record owned by ownerID
func (f *Fixtures) CreateVaultRecord(t *testing.T, ownerID uuid.UUID, opts ...VaultRecordOption) *models.VaultRecord {
	t.Helper()
	f.counter++

	record := &models.VaultRecord{
		OwnerID:     ownerID,
		Title:       fmt.Sprintf("Record %d", f.counter),
		SecretValue: fmt.Sprintf("secret-%d", f.counter),
		Category:    models.DefaultVaultCategory,
	}

	for _, opt := range opts {
		opt(record)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO vault_records (owner_id, title, secret_value, username, site, category, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, record.OwnerID, record.Title, record.SecretValue, record.Username,
		record.Site, record.Category, record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create vault record: %v", err)
	}

	return record
}

// VaultRecordOption configures a test vault record
type VaultRecordOption func(*models.VaultRecord)

// WithTitle sets the record's title
func WithTitle(title string) VaultRecordOption {
	return func(r *models.VaultRecord) {
		r.Title = title
	}
}
