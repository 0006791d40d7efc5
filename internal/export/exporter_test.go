package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	dbTypes "github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	entries []*dbTypes.LeaderboardEntry
	err     error
}

func (s staticSource) ExportAll(context.Context, snowflake.ID) ([]*dbTypes.LeaderboardEntry, error) {
	return s.entries, s.err
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{in: "csv", want: export.FormatCSV},
		{in: " TXT ", want: export.FormatText},
		{in: ".xlsx", want: export.FormatXLSX},
		{in: "png", want: export.FormatChart},
		{in: "db", want: export.FormatSQLite},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, export.ErrUnsupportedFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.ContentType())
		})
	}
}

func TestExportGuild(t *testing.T) {
	t.Parallel()

	approved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	source := staticSource{entries: []*dbTypes.LeaderboardEntry{
		{Username: "vee", Score: 42, ApprovedAt: approved},
		{Username: "bo", Score: 7, ApprovedAt: approved},
	}}

	for _, format := range export.Formats {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			outDir := t.TempDir()
			exporter := export.New(source, outDir, zap.NewNop())

			path, err := exporter.ExportGuild(t.Context(), 123, format)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(outDir, "leaderboard_123."+string(format)), path)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestExportGuildCSVContent(t *testing.T) {
	t.Parallel()

	approved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	source := staticSource{entries: []*dbTypes.LeaderboardEntry{
		{Username: "vee", Score: 42, ApprovedAt: approved},
	}}

	path, err := export.New(source, t.TempDir(), zap.NewNop()).ExportGuild(t.Context(), 1, export.FormatCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Username,Score,Timestamp\nvee,42,2026-03-01T12:30:00Z\n", string(data))
}

func TestExportGuildFailures(t *testing.T) {
	t.Parallel()

	errDB := errors.New("connection refused")

	tests := []struct {
		name    string
		source  staticSource
		format  export.Format
		wantErr error
	}{
		{name: "no entries", source: staticSource{}, format: export.FormatCSV, wantErr: export.ErrNoData},
		{name: "unsupported format", source: staticSource{}, format: "pdf", wantErr: export.ErrUnsupportedFormat},
		{name: "source failure", source: staticSource{err: errDB}, format: export.FormatText, wantErr: errDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			outDir := t.TempDir()

			path, err := export.New(tt.source, outDir, zap.NewNop()).ExportGuild(t.Context(), 1, tt.format)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, path)

			files, err := os.ReadDir(outDir)
			require.NoError(t, err)
			assert.Empty(t, files)
		})
	}
}
