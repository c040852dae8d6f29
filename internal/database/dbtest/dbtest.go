// Package dbtest provides database fixtures for tests: a sqlmock-backed GORM
// handle for query-contract tests and a throwaway Postgres container for
// integration tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
)

const (
	dbName = "todo"
	dbUser = "user"
	dbPwd  = "password"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewMock returns a GORM handle backed by sqlmock. Expectations are checked
// when the test ends.
func NewMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc, err := database.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), config.DBConfig{}, Logger())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return svc.GetDB(), mock
}

// StartPostgres runs a Postgres container for the duration of the test and
// returns the matching configuration. It skips under -short or when no
// container runtime is reachable.
func StartPostgres(t *testing.T) config.DBConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     dbUser,
		Password: dbPwd,
		Name:     dbName,
		SSLMode:  "disable",
	}
}

// NewPostgres starts a container, connects to it and migrates the schema.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	svc, err := database.New(StartPostgres(t), Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.Migrate(context.Background()))
	return svc.GetDB()
}
