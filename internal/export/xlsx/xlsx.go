package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet in the workbook.
const SheetName = "Leaderboard"

// Exporter handles exporting leaderboards to Excel workbooks.
type Exporter struct {
	outDir string
}

// New creates a new xlsx exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export writes a single sheet with a bold header row to <name>.xlsx.
func (e *Exporter) Export(name string, records []*types.Record) (string, error) {
	path := filepath.Join(e.outDir, name+".xlsx")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove existing file %s: %w", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &[]any{"Rank", "Username", "Score", "Timestamp"}); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return "", fmt.Errorf("failed to style header: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("failed to resolve cell: %w", err)
		}

		row := []any{record.Rank, record.Username, record.Score, record.Timestamp()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		return "", fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SetColWidth(SheetName, "D", "D", 22); err != nil {
		return "", fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	return path, nil
}
