package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/securevault-api/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testDatabase = "securevault_test"

// Postgres is a disposable PostgreSQL server shared by one test package.
type Postgres struct {
	container testcontainers.Container
	DSN       string
}

// StartPostgres boots a postgres:16 container. It is meant for TestMain, so
// it reports errors instead of failing a test.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       testDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start postgres container")
	}

	endpoint, err := container.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, errors.Wrap(err, "resolve postgres endpoint")
	}

	return &Postgres{
		container: container,
		DSN:       fmt.Sprintf("postgres://test:test@%s/%s?sslmode=disable", endpoint, testDatabase),
	}, nil
}

func (p *Postgres) Terminate(ctx context.Context) error {
	return p.container.Terminate(ctx)
}

// TestDB is a migrated, empty database for a single test.
type TestDB struct {
	DB *database.DB
}

// Connect opens a pool on p, applies migrations and empties every table. The
// pool is closed when t finishes.
func (p *Postgres) Connect(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, p.DSN)
	require.NoError(t, err, "connect to test database")
	t.Cleanup(pool.Close)

	db := &database.DB{Pool: pool}
	require.NoError(t, db.Migrate(ctx), "run migrations")

	tdb := &TestDB{DB: db}
	tdb.CleanTables(t)
	return tdb
}

// CleanTables empties accounts and, through the cascade, their vault records.
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	_, err := tdb.DB.Pool.Exec(context.Background(), "TRUNCATE TABLE vault_records, accounts CASCADE")
	require.NoError(t, err, "truncate tables")
}
