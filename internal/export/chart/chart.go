package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/proofboard/proofboard/internal/export/types"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// MaxBars is how many of the top records are drawn.
	MaxBars = 10
	// maxLabelLength truncates long usernames under each bar.
	maxLabelLength = 14

	barWidth     = 60
	barSpacing   = 30
	chartHeight  = 512
	minWidth     = 512
	titleSize    = 14.0
	paddingTop   = 40
	paddingSides = 20
)

// ErrNoRecords is returned when there is nothing to draw.
var ErrNoRecords = errors.New("no records to chart")

// Exporter renders the top of a leaderboard as a bar chart.
type Exporter struct {
	outDir string
}

// New creates a new chart exporter instance.
func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

// Export draws the first MaxBars records to <name>.png.
func (e *Exporter) Export(name string, records []*types.Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	if len(records) > MaxBars {
		records = records[:MaxBars]
	}

	bars := make([]chart.Value, len(records))
	lo, hi := 0.0, 0.0

	for i, record := range records {
		score := float64(record.Score)
		lo, hi = min(lo, score), max(hi, score)

		bars[i] = chart.Value{
			Value: score,
			Label: fmt.Sprintf("%d. %s", record.Rank, truncate(record.Username)),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("5865F2"),
				StrokeColor: drawing.ColorFromHex("4752C4"),
				StrokeWidth: 1,
			},
		}
	}

	// A flat range makes go-chart refuse to render
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      "Leaderboard",
		TitleStyle: chart.Style{FontSize: titleSize},
		Background: chart.Style{
			Padding: chart.Box{Top: paddingTop, Left: paddingSides, Right: paddingSides, Bottom: paddingSides},
		},
		Width:      max(minWidth, len(bars)*(barWidth+barSpacing)+100),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	path := filepath.Join(e.outDir, name+".png")

	err := types.WriteFile(path, func(out io.Writer) error {
		if err := graph.Render(chart.PNG, out); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLength {
		return s
	}

	return string(r[:maxLabelLength-1]) + "…"
}
