package text_test

import (
	"os"
	"testing"
	"time"

	"github.com/proofboard/proofboard/internal/export/text"
	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	approved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	records := []*types.Record{
		{Rank: 1, Username: "vee", Score: 42, ApprovedAt: approved},
		{Rank: 2, Username: "bo", Score: 7, ApprovedAt: approved},
	}

	path, err := text.New(t.TempDir()).Export("board", records)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"1. vee - Score: 42 - 2026-03-01T11:30:00Z\n2. bo - Score: 7 - 2026-03-01T11:30:00Z\n",
		string(data))
}
