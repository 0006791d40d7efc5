package sqlite_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	exportSQLite "github.com/proofboard/proofboard/internal/export/sqlite"
	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// readRecords loads every row of the exported table in rank order.
func readRecords(t *testing.T, path string) []*types.Record {
	t.Helper()

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	require.NoError(t, err)
	defer conn.Close()

	var records []*types.Record
	err = sqlitex.ExecuteTransient(conn, "SELECT rank, username, score, approved_at FROM leaderboard ORDER BY rank", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			approved, err := time.Parse(time.RFC3339, stmt.ColumnText(3))
			if err != nil {
				return err
			}

			records = append(records, &types.Record{
				Rank:       stmt.ColumnInt(0),
				Username:   stmt.ColumnText(1),
				Score:      stmt.ColumnInt64(2),
				ApprovedAt: approved,
			})
			return nil
		},
	})
	require.NoError(t, err)

	return records
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	approved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []*types.Record
		wantErr bool
	}{
		{
			name: "basic export",
			records: []*types.Record{
				{Rank: 1, Username: "vee", Score: 42, ApprovedAt: approved},
				{Rank: 2, Username: "o'brien", Score: 7, ApprovedAt: approved},
			},
		},
		{
			name:    "empty records",
			records: []*types.Record{},
		},
		{
			name: "duplicate rank",
			records: []*types.Record{
				{Rank: 1, Username: "vee", Score: 42, ApprovedAt: approved},
				{Rank: 1, Username: "bo", Score: 7, ApprovedAt: approved},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, err := exportSQLite.New(t.TempDir()).Export("board", tt.records)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			got := readRecords(t, path)
			require.Len(t, got, len(tt.records))

			for i, want := range tt.records {
				assert.Equal(t, want.Rank, got[i].Rank)
				assert.Equal(t, want.Username, got[i].Username)
				assert.Equal(t, want.Score, got[i].Score)
				assert.True(t, want.ApprovedAt.Equal(got[i].ApprovedAt))
			}
		})
	}
}

func TestExporter_ExistingFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "board.db"), []byte("invalid sqlite db"), 0o644))

	records := []*types.Record{{Rank: 1, Username: "vee", Score: 42, ApprovedAt: time.Now().Truncate(time.Second)}}

	path, err := exportSQLite.New(tempDir).Export("board", records)
	require.NoError(t, err)
	assert.Len(t, readRecords(t, path), 1)
}

func TestExporter_FailedExportRemovesFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	approved := time.Now().Truncate(time.Second)

	// Rank is the primary key, so a repeated rank fails mid-export
	records := []*types.Record{
		{Rank: 1, Username: "vee", Score: 42, ApprovedAt: approved},
		{Rank: 1, Username: "bo", Score: 7, ApprovedAt: approved},
	}

	_, err := exportSQLite.New(tempDir).Export("board", records)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(tempDir, "board.db"))
	assert.True(t, os.IsNotExist(statErr), "partial database should be removed")
}
