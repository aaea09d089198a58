package testutil

import (
	"context"

	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentityService mocks the IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

func (m *MockIdentityService) VerifyAccount(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockIdentityService) ResendCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockIdentityService) WhoAmI(account *models.Account) models.AccountView {
	args := m.Called(account)
	return args.Get(0).(models.AccountView)
}

// MockVaultService mocks the VaultService
type MockVaultService struct {
	mock.Mock
}

func (m *MockVaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VaultRecord), args.Error(1)
}

func (m *MockVaultService) Create(ctx context.Context, ownerID uuid.UUID, in services.VaultRecordInput) (*models.VaultRecord, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultRecord), args.Error(1)
}

func (m *MockVaultService) Update(ctx context.Context, ownerID, recordID uuid.UUID, patch services.VaultRecordPatch) (*models.VaultRecord, error) {
	args := m.Called(ctx, ownerID, recordID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultRecord), args.Error(1)
}

func (m *MockVaultService) Delete(ctx context.Context, ownerID, recordID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, recordID)
	return args.Bool(0), args.Error(1)
}

// MockAccountLookup mocks the account lookup used by AccessGuard
type MockAccountLookup struct {
	mock.Mock
}

func (m *MockAccountLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}
