package xlsx_test

import (
	"testing"
	"time"

	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/proofboard/proofboard/internal/export/xlsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	approved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	records := []*types.Record{
		{Rank: 1, Username: "vee", Score: 42, ApprovedAt: approved},
		{Rank: 2, Username: "bo", Score: 7, ApprovedAt: approved},
	}

	path, err := xlsx.New(t.TempDir()).Export("board", records)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Username", "Score", "Timestamp"},
		{"1", "vee", "42", "2026-03-01T12:30:00Z"},
		{"2", "bo", "7", "2026-03-01T12:30:00Z"},
	}, rows)
}
