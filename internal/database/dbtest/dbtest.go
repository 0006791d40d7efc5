// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/proofboard/proofboard/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

// New returns a client backed by a private in-memory SQLite database with all migrations applied.
func New(t *testing.T) database.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and serializes writers
	sqldb.SetMaxOpenConns(1)

	client, err := database.NewFromDB(t.Context(), bun.NewDB(sqldb, sqlitedialect.New()), zap.NewNop(), true)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
