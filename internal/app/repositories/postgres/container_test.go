package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/clubrecruit/internal/app/migrations"
	"github.com/yigit/clubrecruit/internal/app/repositories"
	"github.com/yigit/clubrecruit/internal/db"
)

const (
	testDBName   = "clubrecruit_test"
	testUser     = "testuser"
	testPassword = "testpass"
	testImage    = "postgres:16-alpine"
)

// shared holds one migrated container for the whole package
var shared struct {
	once      sync.Once
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	err       error
}

func TestMain(m *testing.M) {
	code := m.Run()
	if shared.pool != nil {
		shared.pool.Close()
	}
	if shared.container != nil {
		if err := testcontainers.TerminateContainer(shared.container); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate postgres container: %v\n", err)
		}
	}
	os.Exit(code)
}

// newTestRepos returns repositories on an empty, migrated database.
// Skipped in -short mode and when no container runtime is reachable.
func newTestRepos(t *testing.T) (*repositories.Repositories, *db.PostgresDB) {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres repository tests need a container runtime")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	shared.once.Do(func() {
		shared.container, shared.pool, shared.err = startPostgres(context.Background())
	})
	require.NoError(t, shared.err)

	_, err := shared.pool.Exec(context.Background(),
		"TRUNCATE comments, comment_threads, applications, open_roles, users, clubs RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	database := &db.PostgresDB{Pool: shared.pool}
	return NewRepositories(database), database
}

func startPostgres(ctx context.Context) (*tcpostgres.PostgresContainer, *pgxpool.Pool, error) {
	container, err := tcpostgres.Run(ctx,
		testImage,
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testUser),
		tcpostgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
					testUser, testPassword, host, port.Port(), testDBName)
			}).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if container != nil {
			_ = testcontainers.TerminateContainer(container)
		}
		return nil, nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("failed to open pool: %w", err)
	}

	dir, err := migrationsDir()
	if err == nil {
		err = migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, dir)
	}
	if err != nil {
		pool.Close()
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return container, pool, nil
}

// migrationsDir resolves the repository's migrations folder from this file's location
func migrationsDir() (string, error) {
	_, callerFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("could not get caller file path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(callerFile), "..", "..", "..", "..", "migrations")), nil
}
