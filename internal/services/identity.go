package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

const MinPasswordLength = 6

// DeliveryTimeout bounds a background verification email.
const DeliveryTimeout = 30 * time.Second

// AccountRepository is the credential store used by IdentityService and AccessGuard.
type AccountRepository interface {
	Create(ctx context.Context, in NewAccount) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID, code OTPCode) (bool, error)
	SetPendingCode(ctx context.Context, id uuid.UUID, code OTPCode, expiresAt time.Time) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type CodeIssuer interface {
	Issue() (OTPCode, time.Time, error)
}

type SessionIssuer interface {
	Issue(accountID uuid.UUID) (string, time.Time, error)
}

type CodeNotifier interface {
	SendVerificationCode(ctx context.Context, to string, code OTPCode, purpose CodePurpose) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   models.AccountView
}

type registration struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"notblank,min=6"`
}

// IdentityService drives the account lifecycle:
// registered (unverified) -> verified -> able to log in.
type IdentityService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	codes    CodeIssuer
	sessions SessionIssuer
	notifier CodeNotifier
	logger   *slog.Logger
	validate *validator.Validate

	now             func() time.Time
	dispatch        func(func())
	deliveryTimeout time.Duration

	dummyOnce   sync.Once
	dummyDigest string
}

func NewIdentityService(
	accounts AccountRepository,
	hasher PasswordHasher,
	codes CodeIssuer,
	sessions SessionIssuer,
	notifier CodeNotifier,
	logger *slog.Logger,
) *IdentityService {
	validate := validator.New()
	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	return &IdentityService{
		accounts: accounts,
		hasher:   hasher,
		codes:    codes,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
		validate: validate,
		now:      time.Now,
		dispatch: func(f func()) { go f() },

		deliveryTimeout: DeliveryTimeout,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *IdentityService) Register(ctx context.Context, name, email, password string) error {
	in := registration{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: password,
	}
	if err := s.validateRegistration(in); err != nil {
		return err
	}

	_, err := s.accounts.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, ErrAccountNotFound):
		return err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}

	code, expiresAt, err := s.codes.Issue()
	if err != nil {
		return err
	}

	account, err := s.accounts.Create(ctx, NewAccount{
		Name:                 in.Name,
		Email:                in.Email,
		PasswordHash:         digest,
		PendingCode:          code,
		PendingCodeExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "account registered", "account_id", account.ID)
	s.deliverCode(ctx, account.Email, code, PurposeSignup)
	return nil
}

func (s *IdentityService) VerifyAccount(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return newValidationError("", "email and code are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	supplied, ok := ParseOTPCode(code)
	if !ok || !ValidateOTP(account.PendingCode, account.PendingCodeExpiresAt, supplied, s.now()) {
		return ErrInvalidOrExpiredCode
	}

	verified, err := s.accounts.MarkVerified(ctx, account.ID, supplied)
	if err != nil {
		return err
	}
	if !verified {
		return ErrInvalidOrExpiredCode
	}

	s.logger.InfoContext(ctx, "account verified", "account_id", account.ID)
	return nil
}

func (s *IdentityService) ResendCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return newValidationError("email", "is required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Verified {
		return ErrAlreadyVerified
	}

	code, expiresAt, err := s.codes.Issue()
	if err != nil {
		return err
	}
	if err := s.accounts.SetPendingCode(ctx, account.ID, code, expiresAt); err != nil {
		return err
	}

	s.deliverCode(ctx, account.Email, code, PurposeResend)
	return nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, newValidationError("", "email and password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		// Spend the same hashing work as a real mismatch.
		s.hasher.Verify(password, s.dummy())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !account.Verified {
		return nil, ErrNotVerified
	}

	token, expiresAt, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account logged in", "account_id", account.ID)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account.View(),
	}, nil
}

func (s *IdentityService) WhoAmI(account *models.Account) models.AccountView {
	return account.View()
}

func (s *IdentityService) deliverCode(ctx context.Context, to string, code OTPCode, purpose CodePurpose) {
	ctx = context.WithoutCancel(ctx)
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
		defer cancel()
		if err := s.notifier.SendVerificationCode(ctx, to, code, purpose); err != nil {
			s.logger.WarnContext(ctx, "failed to deliver verification code", "purpose", purpose, "error", err)
		}
	})
}

func (s *IdentityService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyDigest
}

func (s *IdentityService) validateRegistration(in registration) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newValidationError("", "invalid registration")
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return newValidationError(field, "is required")
	case "email":
		return newValidationError(field, "must be a valid email address")
	case "min":
		return newValidationError(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	default:
		return newValidationError(field, "is invalid")
	}
}
