package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/proofboard/proofboard/internal/export/types"
)

// Header is the first row of every export.
var Header = []string{"Username", "Score", "Timestamp"}

// Exporter handles exporting leaderboards to csv files.
type Exporter struct {
	outDir string
}

// New creates a new csv exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes the records to <name>.csv, replacing any previous file.
func (e *Exporter) Export(name string, records []*types.Record) (string, error) {
	path := filepath.Join(e.outDir, name+".csv")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove existing file %s: %w", path, err)
	}

	err := types.WriteFile(path, func(out io.Writer) error {
		writer := csv.NewWriter(out)

		if err := writer.Write(Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}

		for _, record := range records {
			if err := writer.Write([]string{
				record.Username,
				strconv.FormatInt(record.Score, 10),
				record.Timestamp(),
			}); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("failed to flush csv: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}
