package text

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/proofboard/proofboard/internal/export/types"
)

// Exporter handles exporting leaderboards to plain text files.
type Exporter struct {
	outDir string
}

// New creates a new text exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Line renders one record as "rank. username - Score: score - timestamp".
func Line(record *types.Record) string {
	return fmt.Sprintf("%d. %s - Score: %d - %s", record.Rank, record.Username, record.Score, record.Timestamp())
}

// Export writes one line per record to <name>.txt.
func (e *Exporter) Export(name string, records []*types.Record) (string, error) {
	path := filepath.Join(e.outDir, name+".txt")

	err := types.WriteFile(path, func(out io.Writer) error {
		w := bufio.NewWriter(out)
		for _, record := range records {
			if _, err := fmt.Fprintln(w, Line(record)); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}

		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to flush text file: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}
