//go:build integration

package models_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/proofboard/proofboard/internal/database"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

func newPostgresClient(t *testing.T) database.Client {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("proofboard_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	client, err := database.NewFromDB(ctx, bun.NewDB(sqldb, pgdialect.New()), zap.NewNop(), true)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestPostgresInvariants(t *testing.T) {
	repo := newPostgresClient(t).Model()
	ctx := context.Background()
	guildID, userID := randomID(), randomID()

	t.Run("one pending submission per user and guild", func(t *testing.T) {
		var (
			wg       sync.WaitGroup
			created  atomic.Int32
			rejected atomic.Int32
		)

		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := repo.Submission().Create(ctx, newSubmission(guildID, userID))
				switch {
				case err == nil:
					created.Add(1)
				case assert.ErrorIs(t, err, types.ErrDuplicateSubmission):
					rejected.Add(1)
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
		assert.Equal(t, int32(9), rejected.Load())
	})

	t.Run("exactly one promotion per submission", func(t *testing.T) {
		pending, err := repo.Submission().ListPending(ctx, guildID)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)

		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if _, err := repo.Submission().Approve(ctx, pending[0].ID); err == nil {
					succeeded.Add(1)
				} else {
					assert.ErrorIs(t, err, types.ErrSubmissionNotFound)
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())

		count, err := repo.Leaderboard().Count(ctx, guildID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("one bootstrap owner", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			created atomic.Int32
		)

		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				ok, err := repo.Registry().BootstrapOwner(ctx, guildID, randomID())
				assert.NoError(t, err)

				if ok {
					created.Add(1)
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(1), created.Load())
	})
}
