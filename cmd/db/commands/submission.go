package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// SubmissionCommands returns commands for inspecting and resolving pending submissions.
// Decisions taken here skip the submitter's direct message.
func SubmissionCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "pending",
			Usage: "Manage pending submissions",
			Commands: []*cli.Command{
				{
					Name:      "list",
					Usage:     "List pending submissions of a guild, oldest first",
					ArgsUsage: "GUILD",
					Action:    handleListPending(deps),
				},
				{
					Name:      "approve",
					Usage:     "Approve a pending submission onto the leaderboard",
					ArgsUsage: "SUBMISSION",
					Action:    handleApprove(deps),
				},
				{
					Name:      "reject",
					Usage:     "Reject a pending submission",
					ArgsUsage: "SUBMISSION",
					Action:    handleReject(deps),
				},
			},
		},
	}
}

// handleListPending handles the 'pending list' command.
func handleListPending(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, err := parseGuild(c)
		if err != nil {
			return err
		}

		pending, err := deps.DB.Model().Submission().ListPending(ctx, guildID)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			deps.Logger.Info("No pending submissions", zap.Uint64("guildID", uint64(guildID)))
			return nil
		}

		printSubmissions(pending)

		return nil
	}
}

// handleApprove handles the 'pending approve' command.
func handleApprove(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := parseSubmission(c)
		if err != nil {
			return err
		}

		entry, err := deps.DB.Model().Submission().Approve(ctx, id)
		if err != nil {
			return err
		}

		deps.Logger.Info("Approved submission",
			zap.String("submissionID", id.String()),
			zap.Uint64("guildID", uint64(entry.GuildID)),
			zap.Uint64("userID", uint64(entry.UserID)),
			zap.Int64("score", entry.Score))

		return nil
	}
}

// handleReject handles the 'pending reject' command.
func handleReject(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := parseSubmission(c)
		if err != nil {
			return err
		}

		sub, err := deps.DB.Model().Submission().Reject(ctx, id)
		if err != nil {
			return err
		}

		deps.Logger.Info("Rejected submission",
			zap.String("submissionID", id.String()),
			zap.Uint64("guildID", uint64(sub.GuildID)),
			zap.Uint64("userID", uint64(sub.UserID)))

		return nil
	}
}

func printSubmissions(pending []*types.Submission) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tUSER\tUSERNAME\tSCORE\tCREATED")

	for _, sub := range pending {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			sub.ID, sub.UserID, sub.Username, sub.Score, sub.CreatedAt.Format(time.RFC3339))
	}
}
