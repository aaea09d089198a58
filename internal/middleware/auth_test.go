package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/securevault-api/internal/logging"
	"github.com/dimitrije/securevault-api/internal/models"
	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountsByID map[uuid.UUID]*models.Account

func (m accountsByID) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	if a, ok := m[id]; ok {
		return a, nil
	}
	return nil, services.ErrAccountNotFound
}

type failingGuard struct{}

func (failingGuard) Authenticate(context.Context, string) (*services.Principal, error) {
	return nil, errors.New("db down")
}

func newTestGuard(jwtSvc *services.JWTService, accounts ...*models.Account) *services.AccessGuard {
	known := accountsByID{}
	for _, a := range accounts {
		known[a.ID] = a
	}
	return services.NewAccessGuard(jwtSvc, known)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, accountID uuid.UUID) string {
	t.Helper()
	token, _, err := jwtSvc.Issue(accountID)
	require.NoError(t, err)
	return token
}

func newProtectedApp(guard Authenticator) http.Handler {
	app := drift.New()
	app.Use(Auth(guard, logging.Discard()))
	app.Get("/protected", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return app
}

func serve(app http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	app := newProtectedApp(newTestGuard(jwtSvc))

	rec := serve(app, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuth_InvalidAuthorizationFormat(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	app := newProtectedApp(newTestGuard(jwtSvc))

	for _, header := range []string{"Token some-token", "Bearer"} {
		t.Run(header, func(t *testing.T) {
			rec := serve(app, header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid authorization header format")
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	app := newProtectedApp(newTestGuard(jwtSvc))

	rec := serve(app, "Bearer invalid-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", -time.Minute)
	account := &models.Account{ID: uuid.New()}
	app := newProtectedApp(newTestGuard(jwtSvc, account))

	rec := serve(app, "Bearer "+generateTestToken(t, jwtSvc, account.ID))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAuth_WrongSecret(t *testing.T) {
	jwtSvc1 := services.NewJWTService("secret-1", time.Hour)
	jwtSvc2 := services.NewJWTService("secret-2", time.Hour)
	account := &models.Account{ID: uuid.New()}
	app := newProtectedApp(newTestGuard(jwtSvc2, account))

	rec := serve(app, "Bearer "+generateTestToken(t, jwtSvc1, account.ID))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_DeletedAccount(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	app := newProtectedApp(newTestGuard(jwtSvc))

	rec := serve(app, "Bearer "+generateTestToken(t, jwtSvc, uuid.New()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_GuardFailure(t *testing.T) {
	app := newProtectedApp(failingGuard{})

	rec := serve(app, "Bearer whatever")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestAuth_ValidToken(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	account := &models.Account{ID: uuid.New(), Email: "ana@example.com"}
	token := generateTestToken(t, jwtSvc, account.ID)

	var principal *services.Principal
	var accountID uuid.UUID

	app := drift.New()
	app.Use(Auth(newTestGuard(jwtSvc, account), logging.Discard()))
	app.Get("/protected", func(c *drift.Context) {
		principal = GetPrincipal(c)
		accountID = GetAccountID(c)
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rec := serve(app, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, account.ID, principal.AccountID)
	assert.Equal(t, "ana@example.com", principal.Account.Email)
	assert.Equal(t, account.ID, accountID)
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	jwtSvc := services.NewJWTService("test-secret-key", time.Hour)
	account := &models.Account{ID: uuid.New()}
	token := generateTestToken(t, jwtSvc, account.ID)
	app := newProtectedApp(newTestGuard(jwtSvc, account))

	for _, bearer := range []string{"bearer", "BEARER", "BeArEr"} {
		t.Run(bearer, func(t *testing.T) {
			rec := serve(app, bearer+" "+token)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestGetPrincipal_NotSet(t *testing.T) {
	app := drift.New()

	var principal *services.Principal
	var accountID uuid.UUID

	app.Get("/test", func(c *drift.Context) {
		principal = GetPrincipal(c)
		accountID = GetAccountID(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Nil(t, principal)
	assert.Equal(t, uuid.Nil, accountID)
}
