package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// RegistryCommands returns commands for managing guild owners and reviewers.
func RegistryCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "owner",
			Usage: "Manage guild owners",
			Commands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Grant owner authority to a user",
					ArgsUsage: "GUILD USER",
					Action:    handleAddOwner(deps),
				},
				{
					Name:      "remove",
					Usage:     "Revoke owner authority, refusing to remove the last owner",
					ArgsUsage: "GUILD USER",
					Action:    handleRemoveOwner(deps),
				},
				{
					Name:      "list",
					Usage:     "List the owners of a guild",
					ArgsUsage: "GUILD",
					Action:    handleListOwners(deps),
				},
			},
		},
		{
			Name:  "reviewer",
			Usage: "Manage guild reviewers",
			Commands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Grant review authority to a user",
					ArgsUsage: "GUILD USER",
					Action:    handleAddReviewer(deps),
				},
				{
					Name:      "remove",
					Usage:     "Revoke review authority",
					ArgsUsage: "GUILD USER",
					Action:    handleRemoveReviewer(deps),
				},
				{
					Name:      "list",
					Usage:     "List the reviewers of a guild",
					ArgsUsage: "GUILD",
					Action:    handleListReviewers(deps),
				},
			},
		},
	}
}

// handleAddOwner handles the 'owner add' command.
func handleAddOwner(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseGuildUser(c)
		if err != nil {
			return err
		}

		if err := deps.DB.Model().Registry().AddOwner(ctx, guildID, userID); err != nil {
			return err
		}

		deps.Logger.Info("Added owner", memberFields(guildID, userID)...)

		return nil
	}
}

// handleRemoveOwner handles the 'owner remove' command.
func handleRemoveOwner(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseGuildUser(c)
		if err != nil {
			return err
		}

		removed, err := deps.DB.Model().Registry().RemoveOwnerKeepingOne(ctx, guildID, userID)
		if err != nil {
			return err
		}

		if !removed {
			deps.Logger.Info("User was not an owner", memberFields(guildID, userID)...)
			return nil
		}

		deps.Logger.Info("Removed owner", memberFields(guildID, userID)...)

		return nil
	}
}

// handleListOwners handles the 'owner list' command.
func handleListOwners(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, err := parseGuild(c)
		if err != nil {
			return err
		}

		owners, err := deps.DB.Model().Registry().ListOwners(ctx, guildID)
		if err != nil {
			return err
		}

		printMembers("Owners", guildID, owners)

		return nil
	}
}

// handleAddReviewer handles the 'reviewer add' command.
func handleAddReviewer(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseGuildUser(c)
		if err != nil {
			return err
		}

		if err := deps.DB.Model().Registry().AddReviewer(ctx, guildID, userID); err != nil {
			return err
		}

		deps.Logger.Info("Added reviewer", memberFields(guildID, userID)...)

		return nil
	}
}

// handleRemoveReviewer handles the 'reviewer remove' command.
func handleRemoveReviewer(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseGuildUser(c)
		if err != nil {
			return err
		}

		removed, err := deps.DB.Model().Registry().RemoveReviewer(ctx, guildID, userID)
		if err != nil {
			return err
		}

		if !removed {
			deps.Logger.Info("User was not a reviewer", memberFields(guildID, userID)...)
			return nil
		}

		deps.Logger.Info("Removed reviewer", memberFields(guildID, userID)...)

		return nil
	}
}

// handleListReviewers handles the 'reviewer list' command.
func handleListReviewers(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, err := parseGuild(c)
		if err != nil {
			return err
		}

		reviewers, err := deps.DB.Model().Registry().ListReviewers(ctx, guildID)
		if err != nil {
			return err
		}

		printMembers("Reviewers", guildID, reviewers)

		return nil
	}
}

func memberFields(guildID, userID snowflake.ID) []zap.Field {
	return []zap.Field{
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("userID", uint64(userID)),
	}
}

func printMembers(title string, guildID snowflake.ID, members []snowflake.ID) {
	fmt.Printf("%s of guild %s (%d):\n", title, guildID, len(members))

	for _, member := range members {
		fmt.Printf("  %s\n", member)
	}
}
