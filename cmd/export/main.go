package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/export"
	"github.com/proofboard/proofboard/internal/setup"
	"github.com/proofboard/proofboard/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// ExportLogDir specifies where export log files are stored.
	ExportLogDir = "logs/export_logs"
)

var ErrGuildRequired = errors.New("--guild is required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	formats := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		formats = append(formats, string(f))
	}

	app := &cli.Command{
		Name:  "export",
		Usage: "Export a guild's leaderboard history to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "guild",
				Aliases: []string{"g"},
				Usage:   "Guild ID to export",
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   []string{string(export.FormatCSV)},
				Usage:   "Export format, repeatable (" + strings.Join(formats, ", ") + ")",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "exports",
				Usage:   "Base output directory for export files",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.String("guild") == "" {
				return ErrGuildRequired
			}

			guildID, err := snowflake.Parse(c.String("guild"))
			if err != nil {
				return fmt.Errorf("invalid guild ID: %w", err)
			}

			// Reject bad formats before connecting to anything
			var selected []export.Format
			for _, name := range c.StringSlice("format") {
				format, err := export.ParseFormat(name)
				if err != nil {
					return err
				}

				selected = append(selected, format)
			}

			// Initialize application with required dependencies
			app, err := setup.InitializeApp(ctx, telemetry.ServiceExport, ExportLogDir)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Cleanup(ctx)

			// Create timestamped output directory
			timestamp := time.Now().UTC().Format("2006-01-02_150405")
			outDir := filepath.Join(c.String("output"), timestamp)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			exporter := export.New(app.DB.Model().Leaderboard(), outDir, app.Logger)

			for _, format := range selected {
				path, err := exporter.ExportGuild(ctx, guildID, format)
				if err != nil {
					return fmt.Errorf("failed to export %s: %w", format, err)
				}

				app.Logger.Info("Exported leaderboard",
					zap.Uint64("guildID", uint64(guildID)),
					zap.String("format", string(format)),
					zap.String("path", path))
			}

			return nil
		},
	}

	return app.Run(context.Background(), os.Args)
}
