package chart_test

import (
	"image/png"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/proofboard/proofboard/internal/export/chart"
	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeConfig(t *testing.T, path string) (int, int) {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	cfg, err := png.DecodeConfig(file)
	require.NoError(t, err)

	return cfg.Width, cfg.Height
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
		score func(i int) int64
	}{
		{name: "single bar", count: 1, score: func(int) int64 { return 42 }},
		{name: "equal scores", count: 3, score: func(int) int64 { return 0 }},
		{name: "more than fit", count: 25, score: func(i int) int64 { return int64(100 - i) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := make([]*types.Record, tt.count)
			for i := range records {
				records[i] = &types.Record{
					Rank:       i + 1,
					Username:   "player_with_a_long_name_" + strconv.Itoa(i),
					Score:      tt.score(i),
					ApprovedAt: time.Now(),
				}
			}

			path, err := chart.New(t.TempDir()).Export("board", records)
			require.NoError(t, err)

			width, height := decodeConfig(t, path)
			assert.GreaterOrEqual(t, width, 512)
			assert.Equal(t, 512, height)
		})
	}
}

func TestExporter_NoRecords(t *testing.T) {
	t.Parallel()

	_, err := chart.New(t.TempDir()).Export("board", nil)
	require.ErrorIs(t, err, chart.ErrNoRecords)
}
