package bot

import (
	"context"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"github.com/proofboard/proofboard/internal/export"
)

// scope limits where a command may be used.
type scope int

const (
	scopeGuild scope = iota
	scopeDM
)

// check fails when an interaction from guildID is outside the scope.
func (s scope) check(guildID *snowflake.ID) error {
	switch {
	case s == scopeGuild && guildID == nil:
		return ErrGuildOnly
	case s == scopeDM && guildID != nil:
		return ErrDMOnly
	default:
		return nil
	}
}

type (
	commandHandler   func(ctx context.Context, event *events.ApplicationCommandInteractionCreate) (*discord.MessageUpdateBuilder, error)
	componentHandler func(ctx context.Context, event *events.ComponentInteractionCreate) (*discord.MessageUpdateBuilder, error)
)

// command is a slash command and the handler that answers it.
type command struct {
	create discord.SlashCommandCreate
	scope  scope
	handle commandHandler
}

// commandOrder is the order commands are registered in.
var commandOrder = []string{
	constants.SubmitCommandName,
	constants.ReviewCommandName,
	constants.LeaderboardCommandName,
	constants.PostCommandName,
	constants.ExportCommandName,
	constants.SetChannelCommandName,
	constants.SetLeaderboardLimitCommandName,
	constants.AddOwnerCommandName,
	constants.RemoveOwnerCommandName,
	constants.AddReviewerCommandName,
	constants.RemoveReviewerCommandName,
	constants.ListOwnersCommandName,
	constants.BanUserCommandName,
}

func (b *Bot) buildCommands() map[string]command {
	minLimit := 1

	formatChoices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(export.Formats))
	for _, f := range export.Formats {
		formatChoices = append(formatChoices, discord.ApplicationCommandOptionChoiceString{
			Name:  strings.ToUpper(string(f)),
			Value: string(f),
		})
	}

	userOption := func(description string) discord.ApplicationCommandOption {
		return discord.ApplicationCommandOptionUser{
			Name:        constants.UserOptionName,
			Description: description,
			Required:    true,
		}
	}

	commands := []command{
		{
			create: discord.SlashCommandCreate{
				Name:        constants.SubmitCommandName,
				Description: "Submit your score",
			},
			scope:  scopeDM,
			handle: b.handleSubmit,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.ReviewCommandName,
				Description: "Review pending submissions",
			},
			handle: b.handleReview,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.LeaderboardCommandName,
				Description: "Show the leaderboard",
			},
			handle: b.handleLeaderboard,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.PostCommandName,
				Description: "Post the current leaderboard to the configured channel",
			},
			handle: b.handlePost,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.ExportCommandName,
				Description: "Export the full leaderboard history",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        constants.FormatOptionName,
						Description: "File format",
						Required:    true,
						Choices:     formatChoices,
					},
				},
			},
			handle: b.handleExport,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.SetChannelCommandName,
				Description: "Set the channel where leaderboard will be posted",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionChannel{
						Name:         constants.ChannelOptionName,
						Description:  "Text channel to post leaderboard",
						Required:     true,
						ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
					},
				},
			},
			handle: b.handleSetChannel,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.SetLeaderboardLimitCommandName,
				Description: "Set how many entries the leaderboard shows",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        constants.LimitOptionName,
						Description: "Maximum number of scores shown",
						Required:    true,
						MinValue:    &minLimit,
					},
				},
			},
			handle: b.handleSetLimit,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.AddOwnerCommandName,
				Description: "Add a new owner who can review and manage settings",
				Options:     []discord.ApplicationCommandOption{userOption("User to add as an owner")},
			},
			handle: b.handleAddOwner,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.RemoveOwnerCommandName,
				Description: "Remove an owner",
				Options:     []discord.ApplicationCommandOption{userOption("User to remove from owners")},
			},
			handle: b.handleRemoveOwner,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.AddReviewerCommandName,
				Description: "Add a reviewer who can approve and reject submissions",
				Options:     []discord.ApplicationCommandOption{userOption("User to add as a reviewer")},
			},
			handle: b.handleAddReviewer,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.RemoveReviewerCommandName,
				Description: "Remove a reviewer",
				Options:     []discord.ApplicationCommandOption{userOption("User to remove from reviewers")},
			},
			handle: b.handleRemoveReviewer,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.ListOwnersCommandName,
				Description: "List the owners and reviewers of this server",
			},
			handle: b.handleListOwners,
		},
		{
			create: discord.SlashCommandCreate{
				Name:        constants.BanUserCommandName,
				Description: "Ban a user from the server",
				Options: []discord.ApplicationCommandOption{
					userOption("User to ban"),
					discord.ApplicationCommandOptionString{
						Name:        constants.ReasonOptionName,
						Description: "Reason for the ban",
					},
				},
			},
			handle: b.handleBanUser,
		},
	}

	byName := make(map[string]command, len(commands))
	for _, cmd := range commands {
		byName[cmd.create.Name] = cmd
	}

	return byName
}

// componentHandler picks the handler for a component custom ID.
func (b *Bot) componentHandler(customID string) (componentHandler, bool) {
	switch customIDPrefix(customID) {
	case constants.ReviewCustomIDPrefix:
		return b.handleReviewButton, true
	case constants.PageCustomIDPrefix:
		return b.handlePageButton, true
	case constants.GuildSelectMenuCustomID:
		return b.handleGuildSelect, true
	default:
		return nil, false
	}
}
