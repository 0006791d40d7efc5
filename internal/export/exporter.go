// Package export writes a guild's full leaderboard history to files.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	dbTypes "github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/export/chart"
	"github.com/proofboard/proofboard/internal/export/csv"
	"github.com/proofboard/proofboard/internal/export/sqlite"
	"github.com/proofboard/proofboard/internal/export/text"
	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/proofboard/proofboard/internal/export/xlsx"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoData            = errors.New("leaderboard has no entries")
)

// Format represents a supported export format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatText   Format = "txt"
	FormatXLSX   Format = "xlsx"
	FormatChart  Format = "png"
	FormatSQLite Format = "db"
)

// Formats lists every supported format in the order offered to users.
var Formats = []Format{FormatCSV, FormatText, FormatXLSX, FormatChart, FormatSQLite}

var contentTypes = map[Format]string{
	FormatCSV:    "text/csv",
	FormatText:   "text/plain",
	FormatXLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatChart:  "image/png",
	FormatSQLite: "application/vnd.sqlite3",
}

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if _, ok := contentTypes[format]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}

	return format, nil
}

// ContentType is the MIME type of files in this format.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Source provides the full leaderboard history of a guild.
type Source interface {
	ExportAll(ctx context.Context, guildID snowflake.ID) ([]*dbTypes.LeaderboardEntry, error)
}

// Exporter handles exporting guild leaderboards.
type Exporter struct {
	source Source
	outDir string
	logger *zap.Logger
}

// New creates a new exporter that writes into outDir.
func New(source Source, outDir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		source: source,
		outDir: outDir,
		logger: logger.Named("export"),
	}
}

// ExportGuild writes the guild's leaderboard in the given format and returns the file path.
// An empty leaderboard produces no file.
func (e *Exporter) ExportGuild(ctx context.Context, guildID snowflake.ID, format Format) (string, error) {
	if _, ok := contentTypes[format]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	entries, err := e.source.ExportAll(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if len(entries) == 0 {
		return "", ErrNoData
	}

	path, err := e.Export(format, fmt.Sprintf("leaderboard_%s", guildID), types.FromEntries(entries))
	if err != nil {
		return "", err
	}

	e.logger.Info("Exported leaderboard",
		zap.Uint64("guildID", uint64(guildID)),
		zap.String("format", string(format)),
		zap.Int("records", len(entries)),
		zap.String("path", path))

	return path, nil
}

// Export writes already ranked records in the given format.
func (e *Exporter) Export(format Format, name string, records []*types.Record) (string, error) {
	var exporter interface {
		Export(name string, records []*types.Record) (string, error)
	}

	switch format {
	case FormatCSV:
		exporter = csv.New(e.outDir)
	case FormatText:
		exporter = text.New(e.outDir)
	case FormatXLSX:
		exporter = xlsx.New(e.outDir)
	case FormatChart:
		exporter = chart.New(e.outDir)
	case FormatSQLite:
		exporter = sqlite.New(e.outDir)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	path, err := exporter.Export(name, records)
	if err != nil {
		return "", fmt.Errorf("failed to export %s format: %w", format, err)
	}

	return path, nil
}
