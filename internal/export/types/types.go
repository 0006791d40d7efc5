package types

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	dbTypes "github.com/proofboard/proofboard/internal/database/types"
)

// Record is one ranked leaderboard row in an export file.
type Record struct {
	Rank       int
	Username   string
	Score      int64
	ApprovedAt time.Time
}

// FromEntries ranks entries in the order given, starting at 1.
func FromEntries(entries []*dbTypes.LeaderboardEntry) []*Record {
	records := make([]*Record, len(entries))
	for i, entry := range entries {
		records[i] = &Record{
			Rank:       i + 1,
			Username:   entry.Username,
			Score:      entry.Score,
			ApprovedAt: entry.ApprovedAt,
		}
	}

	return records
}

// Timestamp formats the approval time the same way in every format.
func (r *Record) Timestamp() string {
	return r.ApprovedAt.UTC().Format(time.RFC3339)
}

// WriteFile creates path and streams content into it with write. On any
// failure the partial file is removed so a failed export leaves nothing behind.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}

		if err != nil {
			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				err = errors.Join(err, removeErr)
			}
		}
	}()

	return write(file)
}
