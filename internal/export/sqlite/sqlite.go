package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/proofboard/proofboard/internal/export/types"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// batchSize is how many rows are inserted per transaction.
const batchSize = 1000

// Exporter handles exporting leaderboards to standalone SQLite databases.
type Exporter struct {
	outDir string
}

// New creates a new SQLite exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes a leaderboard table to <name>.db, replacing any previous file.
// A failed export removes the partial database.
func (e *Exporter) Export(name string, records []*types.Record) (_ string, err error) {
	path := filepath.Join(e.outDir, name+".db")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove existing file %s: %w", path, err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return "", fmt.Errorf("failed to open SQLite database: %w", err)
	}

	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close SQLite database: %w", closeErr)
		}

		if err != nil {
			_ = os.Remove(path)
		}
	}()

	err = sqlitex.Execute(conn, `
		CREATE TABLE leaderboard (
			rank INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			approved_at TEXT NOT NULL
		)
	`, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create table: %w", err)
	}

	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		if err := sqlitex.Execute(conn, "BEGIN TRANSACTION", nil); err != nil {
			return "", fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, record := range records[i:end] {
			err = sqlitex.Execute(conn,
				"INSERT INTO leaderboard (rank, username, score, approved_at) VALUES (?, ?, ?, ?)",
				&sqlitex.ExecOptions{
					Args: []any{record.Rank, record.Username, record.Score, record.Timestamp()},
				})
			if err != nil {
				_ = sqlitex.Execute(conn, "ROLLBACK", nil)
				return "", fmt.Errorf("failed to insert record: %w", err)
			}
		}

		if err := sqlitex.Execute(conn, "COMMIT", nil); err != nil {
			return "", fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	return path, nil
}
