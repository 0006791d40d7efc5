// Package bot is the Discord front end: slash commands, the direct message submission
// dialogue and the review buttons.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	guildEvents "github.com/proofboard/proofboard/internal/bot/events"
	"github.com/proofboard/proofboard/internal/database/models"
	"github.com/proofboard/proofboard/internal/database/types"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/proofboard/proofboard/internal/leaderboard"
	"github.com/proofboard/proofboard/internal/notify"
	"github.com/proofboard/proofboard/internal/review"
	"github.com/proofboard/proofboard/internal/setup"
	"go.uber.org/zap"
)

// interactionTimeout bounds the work done for a single interaction.
const interactionTimeout = 30 * time.Second

// interactionEvent holds the methods shared by the interaction events the bot answers.
type interactionEvent interface {
	Client() bot.Client
	ApplicationID() snowflake.ID
	Token() string
	User() discord.User
	GuildID() *snowflake.ID
}

var (
	_ interactionEvent = (*events.ApplicationCommandInteractionCreate)(nil)
	_ interactionEvent = (*events.ComponentInteractionCreate)(nil)
)

// Bot connects the submission services to Discord.
type Bot struct {
	client      bot.Client
	registry    *models.RegistryModel
	settings    *models.SettingModel
	entries     *models.LeaderboardModel
	intake      *intake.Flow
	review      *review.Service
	sessions    *review.Manager
	leaderboard *leaderboard.Service
	notifier    *notify.Notifier
	app         *setup.App
	guilds      *guildDirectory
	dialogues   *dialogues
	messenger   *messenger
	commands    map[string]command
	logger      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New initializes a Bot from the application dependencies and configures the
// Discord client with the gateway intents and event listeners it needs.
func New(app *setup.App) (*Bot, error) {
	repo := app.DB.Model()
	cfg := app.Config.Bot
	logger := app.Logger.Named("bot")

	sessions, err := review.NewManager(app.RedisManager, cfg.Review.SessionTTLDuration(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review session manager: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		registry:    repo.Registry(),
		settings:    repo.Setting(),
		entries:     repo.Leaderboard(),
		intake:      intake.NewFlow(repo.Registry(), repo.Submission(), app.Bus, app.Metrics, cfg.Submission.PromptTimeoutDuration(), logger),
		review:      review.NewService(repo.Submission(), repo.Registry(), app.Bus, app.Metrics, logger),
		sessions:    sessions,
		leaderboard: leaderboard.NewService(repo.Leaderboard(), repo.Setting(), cfg.Leaderboard.PerPage, logger),
		app:         app,
		guilds:      newGuildDirectory(),
		dialogues:   newDialogues(),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
	b.commands = b.buildCommands()

	guildHandler := guildEvents.NewGuildEventHandler(b.registry, b.guilds, logger)

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentDirectMessages,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnComponentInteraction:          b.handleComponentInteraction,
			OnDMMessageCreate:               b.handleDirectMessage,
			OnGuildReady:                    guildHandler.OnGuildReady,
			OnGuildJoin:                     guildHandler.OnGuildJoin,
			OnGuildLeave:                    guildHandler.OnGuildLeave,
		}),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	b.client = client
	b.messenger = &messenger{rest: client.Rest()}
	b.notifier = notify.New(b.messenger, b.registry, app.Metrics, notify.Config{
		MaxConcurrent: cfg.Notify.MaxConcurrent,
		RatePerSecond: cfg.Notify.RatePerSecond,
	}, logger)

	return b, nil
}

// Start registers global commands, starts delivering notifications and opens the gateway.
func (b *Bot) Start() error {
	b.logger.Info("Registering commands")

	creates := make([]discord.ApplicationCommandCreate, 0, len(b.commands))
	for _, name := range commandOrder {
		creates = append(creates, b.commands[name].create)
	}

	if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), creates); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		if err := b.notifier.Run(b.ctx, b.app.Bus); err != nil {
			b.logger.Error("Notifier stopped", zap.Error(err))
		}
	}()

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(b.ctx)
}

// Close gracefully shuts down the Discord gateway connection and waits for
// running dialogues and the notifier to stop.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.cancel()
	b.client.Close(context.Background())
	b.wg.Wait()
}

// handleApplicationCommandInteraction defers the response, then runs the
// command in a goroutine so gateway events keep flowing.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(true); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		name := event.SlashCommandInteractionData().CommandName()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command interaction handler", zap.Any("panic", r))
				b.respondWithError(event, fmt.Errorf("panic: %v", r))
			}

			b.logger.Debug("Application command interaction handled",
				zap.String("command", name),
				zap.Duration("duration", time.Since(start)))
		}()

		cmd, ok := b.commands[name]
		if !ok {
			b.respondWithError(event, fmt.Errorf("%w: %s", ErrUnknownCommand, name))
			return
		}

		if err := cmd.scope.check(event.GuildID()); err != nil {
			b.respondWithError(event, err)
			return
		}

		ctx, cancel := context.WithTimeout(b.ctx, interactionTimeout)
		defer cancel()

		builder, err := cmd.handle(ctx, event)
		if err != nil {
			b.respondWithError(event, err)
			return
		}

		b.respond(event, builder)
	}()
}

// handleComponentInteraction routes button clicks and select menu choices by custom ID prefix.
func (b *Bot) handleComponentInteraction(event *events.ComponentInteractionCreate) {
	go func() {
		if err := event.DeferUpdateMessage(); err != nil {
			b.logger.Error("Failed to defer update message", zap.Error(err))
			return
		}

		customID := event.Data.CustomID()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in component interaction handler", zap.Any("panic", r))
				b.respondWithError(event, fmt.Errorf("panic: %v", r))
			}

			b.logger.Debug("Component interaction handled",
				zap.String("custom_id", customID),
				zap.Duration("duration", time.Since(start)))
		}()

		handle, ok := b.componentHandler(customID)
		if !ok {
			b.respondWithError(event, fmt.Errorf("%w: %q", ErrMalformedCustomID, customID))
			return
		}

		ctx, cancel := context.WithTimeout(b.ctx, interactionTimeout)
		defer cancel()

		builder, err := handle(ctx, event)
		if err != nil {
			b.respondWithError(event, err)
			return
		}

		b.respond(event, builder)
	}()
}

// handleDirectMessage hands a submitter's message to their running dialogue.
func (b *Bot) handleDirectMessage(event *events.DMMessageCreate) {
	if event.Message.Author.Bot {
		return
	}

	attachments := make([]string, 0, len(event.Message.Attachments))
	for _, attachment := range event.Message.Attachments {
		attachments = append(attachments, attachment.URL)
	}

	delivered := b.dialogues.deliverReply(event.Message.Author.ID, intake.Reply{
		Content:     event.Message.Content,
		Attachments: attachments,
	})

	b.logger.Debug("Direct message received",
		zap.Uint64("userID", uint64(event.Message.Author.ID)),
		zap.Bool("delivered", delivered))
}

// isMember checks guild membership through the REST API.
func (b *Bot) isMember(ctx context.Context, guildID, userID snowflake.ID) (bool, error) {
	if _, err := b.client.Rest().GetMember(guildID, userID, rest.WithCtx(ctx)); err != nil {
		if isNotFound(err) {
			return false, nil
		}

		b.logger.Warn("Failed to check guild membership",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("userID", uint64(userID)),
			zap.Error(err))

		return false, err
	}

	return true, nil
}

// interactionGuild returns the guild an interaction came from.
func interactionGuild(event interactionEvent) (snowflake.ID, error) {
	id := event.GuildID()
	if id == nil {
		return 0, ErrGuildOnly
	}

	return *id, nil
}

// requireOwner fails unless the user owns the guild's leaderboard.
func (b *Bot) requireOwner(ctx context.Context, guildID, userID snowflake.ID) error {
	ok, err := b.registry.IsOwner(ctx, guildID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: owner grant required (guildID=%s, userID=%s)", types.ErrUnauthorized, guildID, userID)
	}

	return nil
}

// requireAuthorized fails unless the user is an owner or reviewer of the guild.
func (b *Bot) requireAuthorized(ctx context.Context, guildID, userID snowflake.ID) error {
	ok, err := b.registry.IsAuthorized(ctx, guildID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w (guildID=%s, userID=%s)", types.ErrUnauthorized, guildID, userID)
	}

	return nil
}
