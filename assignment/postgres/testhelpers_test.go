//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// SetupPostgresContainer starts postgres:16-alpine and returns its connection string
func SetupPostgresContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return connStr, func() {
		_ = pgContainer.Terminate(ctx)
	}
}

// CreateTestSchema creates the subset of the workflow schema read by Repository
func CreateTestSchema(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	schema := `
		CREATE TABLE users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT,
			full_name TEXT,
			department_id BIGINT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE TABLE group_members (
			group_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id)
		);
		CREATE TABLE complaints (
			id BIGSERIAL PRIMARY KEY,
			ticket_id TEXT,
			subject TEXT,
			status TEXT NOT NULL
		);
		CREATE TABLE complaint_assignments (
			id BIGSERIAL PRIMARY KEY,
			complaint_id BIGINT NOT NULL REFERENCES complaints(id),
			assigned_to_user_id BIGINT,
			assigned_to_group_id BIGINT,
			assigned_to_dept_id BIGINT,
			assigned_date TIMESTAMPTZ NOT NULL,
			target_date_offset INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		);
	`

	_, err := db.ExecContext(ctx, schema)
	require.NoError(t, err)
}
