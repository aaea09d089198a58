package handlers

import (
	"context"

	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/google/uuid"
)

// IdentityServiceInterface defines the methods used by handlers from IdentityService
type IdentityServiceInterface interface {
	Register(ctx context.Context, name, email, password string) error
	VerifyAccount(ctx context.Context, email, code string) error
	ResendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	WhoAmI(account *models.Account) models.AccountView
}

// VaultServiceInterface defines the methods used by handlers from VaultService
type VaultServiceInterface interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultRecord, error)
	Create(ctx context.Context, ownerID uuid.UUID, in services.VaultRecordInput) (*models.VaultRecord, error)
	Update(ctx context.Context, ownerID, recordID uuid.UUID, patch services.VaultRecordPatch) (*models.VaultRecord, error)
	Delete(ctx context.Context, ownerID, recordID uuid.UUID) (bool, error)
}
