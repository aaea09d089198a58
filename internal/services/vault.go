package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"
)

const vaultRecordColumns = `id, owner_id, title, secret_value, username, site, category, notes, created_at, updated_at`

// VaultRecordInput carries the caller-supplied fields of a new record. The
// owner is never taken from it.
type VaultRecordInput struct {
	Title       string
	SecretValue string
	Username    string
	Site        string
	Category    string
	Notes       string
}

// VaultRecordPatch is a partial update; nil fields are left unchanged.
type VaultRecordPatch struct {
	Title       *string
	SecretValue *string
	Username    *string
	Site        *string
	Category    *string
	Notes       *string
}

// VaultService stores vault records. Every statement filters by owner_id so
// a record owned by someone else looks exactly like a missing one.
type VaultService struct {
	db *database.DB
}

func NewVaultService(db *database.DB) *VaultService {
	return &VaultService{db: db}
}

func (s *VaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultRecord, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+vaultRecordColumns+`
		FROM vault_records
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list vault records")
	}
	defer rows.Close()

	records := []models.VaultRecord{}
	for rows.Next() {
		var r models.VaultRecord
		if err := rows.Scan(
			&r.ID, &r.OwnerID, &r.Title, &r.SecretValue, &r.Username,
			&r.Site, &r.Category, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to scan vault record")
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list vault records")
	}
	return records, nil
}

func (s *VaultService) Create(ctx context.Context, ownerID uuid.UUID, in VaultRecordInput) (*models.VaultRecord, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, newValidationError("title", "is required")
	}
	if in.SecretValue == "" {
		return nil, newValidationError("secret_value", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = models.DefaultVaultCategory
	}

	var r models.VaultRecord
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO vault_records (owner_id, title, secret_value, username, site, category, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+vaultRecordColumns,
		ownerID, in.Title, in.SecretValue, in.Username, in.Site, in.Category, in.Notes,
	).Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.SecretValue, &r.Username,
		&r.Site, &r.Category, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create vault record")
	}
	return &r, nil
}

func (s *VaultService) Update(ctx context.Context, ownerID, recordID uuid.UUID, patch VaultRecordPatch) (*models.VaultRecord, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, newValidationError("title", "cannot be empty")
		}
		patch.Title = &title
	}
	if patch.SecretValue != nil && *patch.SecretValue == "" {
		return nil, newValidationError("secret_value", "cannot be empty")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		category := models.DefaultVaultCategory
		patch.Category = &category
	}

	var r models.VaultRecord
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE vault_records
		SET title = COALESCE($1, title),
			secret_value = COALESCE($2, secret_value),
			username = COALESCE($3, username),
			site = COALESCE($4, site),
			category = COALESCE($5, category),
			notes = COALESCE($6, notes),
			updated_at = NOW()
		WHERE id = $7 AND owner_id = $8
		RETURNING `+vaultRecordColumns,
		patch.Title, patch.SecretValue, patch.Username, patch.Site, patch.Category, patch.Notes,
		recordID, ownerID,
	).Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.SecretValue, &r.Username,
		&r.Site, &r.Category, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVaultRecordNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to update vault record")
	}
	return &r, nil
}

// Delete removes the record if the caller owns it and reports whether a row
// was removed. Whether "nothing removed" is an error is the caller's policy.
func (s *VaultService) Delete(ctx context.Context, ownerID, recordID uuid.UUID) (bool, error) {
	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM vault_records WHERE id = $1 AND owner_id = $2
	`, recordID, ownerID)
	if err != nil {
		return false, pkgerrors.Wrap(err, "failed to delete vault record")
	}
	return result.RowsAffected() > 0, nil
}
