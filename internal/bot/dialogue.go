package bot

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/intake"
)

// Prompter delivers dialogue prompts to a submitter.
type Prompter interface {
	SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error
	SendGuildMenu(ctx context.Context, userID snowflake.ID, options []intake.GuildOption) error
}

// dialogue is one submitter's side of an intake flow. Answers arrive from gateway
// events and are handed to the waiting flow step.
type dialogue struct {
	userID   snowflake.ID
	prompter Prompter
	replies  chan intake.Reply
	guilds   chan snowflake.ID
}

var _ intake.Conversation = (*dialogue)(nil)

// ChooseGuild shows the guild menu and waits for a selection.
func (d *dialogue) ChooseGuild(ctx context.Context, options []intake.GuildOption) (snowflake.ID, error) {
	drain(d.guilds)

	if err := d.prompter.SendGuildMenu(ctx, d.userID, options); err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case guildID := <-d.guilds:
		return guildID, nil
	}
}

// Ask sends the prompt for state and waits for the next direct message.
func (d *dialogue) Ask(ctx context.Context, state intake.State) (intake.Reply, error) {
	// Messages sent before the prompt belong to no question
	drain(d.replies)

	if err := d.prompter.SendDirectMessage(ctx, d.userID, state.Prompt()); err != nil {
		return intake.Reply{}, err
	}

	select {
	case <-ctx.Done():
		return intake.Reply{}, ctx.Err()
	case reply := <-d.replies:
		return reply, nil
	}
}

// dialogues tracks the running dialogue of each submitter. A submitter has at most one.
type dialogues struct {
	mu     sync.Mutex
	active map[snowflake.ID]*dialogue
}

func newDialogues() *dialogues {
	return &dialogues{active: make(map[snowflake.ID]*dialogue)}
}

// start registers a dialogue for userID. It returns false if one is already running.
func (d *dialogues) start(userID snowflake.ID, prompter Prompter) (*dialogue, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.active[userID]; ok {
		return nil, false
	}

	conv := &dialogue{
		userID:   userID,
		prompter: prompter,
		replies:  make(chan intake.Reply, 1),
		guilds:   make(chan snowflake.ID, 1),
	}
	d.active[userID] = conv

	return conv, true
}

// finish forgets the dialogue of userID.
func (d *dialogues) finish(userID snowflake.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.active, userID)
}

// running reports whether userID has a dialogue in progress.
func (d *dialogues) running(userID snowflake.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.active[userID]

	return ok
}

// deliverReply hands a direct message to the dialogue of userID.
// Replies nobody is waiting for are dropped.
func (d *dialogues) deliverReply(userID snowflake.ID, reply intake.Reply) bool {
	conv := d.get(userID)
	if conv == nil {
		return false
	}

	return offer(conv.replies, reply)
}

// deliverGuild hands a guild selection to the dialogue of userID.
func (d *dialogues) deliverGuild(userID, guildID snowflake.ID) bool {
	conv := d.get(userID)
	if conv == nil {
		return false
	}

	return offer(conv.guilds, guildID)
}

func (d *dialogues) get(userID snowflake.ID) *dialogue {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.active[userID]
}

// offer sends v without blocking.
func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}

// drain discards anything buffered in ch.
func drain[T any](ch chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
