package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrompter records prompts and signals each one on sent.
type fakePrompter struct {
	mu      sync.Mutex
	prompts []string
	menus   [][]intake.GuildOption
	sent    chan struct{}
	err     error
}

func newFakePrompter() *fakePrompter {
	return &fakePrompter{sent: make(chan struct{}, 16)}
}

func (p *fakePrompter) SendDirectMessage(_ context.Context, _ snowflake.ID, content string) error {
	if p.err != nil {
		return p.err
	}

	p.mu.Lock()
	p.prompts = append(p.prompts, content)
	p.mu.Unlock()
	p.sent <- struct{}{}

	return nil
}

func (p *fakePrompter) SendGuildMenu(_ context.Context, _ snowflake.ID, options []intake.GuildOption) error {
	if p.err != nil {
		return p.err
	}

	p.mu.Lock()
	p.menus = append(p.menus, options)
	p.mu.Unlock()
	p.sent <- struct{}{}

	return nil
}

func (p *fakePrompter) waitSent(t *testing.T) {
	t.Helper()

	select {
	case <-p.sent:
	case <-time.After(time.Second):
		t.Fatal("prompt was not sent")
	}
}

func TestDialoguesOnePerUser(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	userID := snowflake.ID(7)

	_, ok := d.start(userID, newFakePrompter())
	require.True(t, ok)
	assert.True(t, d.running(userID))

	_, ok = d.start(userID, newFakePrompter())
	assert.False(t, ok)

	_, ok = d.start(snowflake.ID(8), newFakePrompter())
	assert.True(t, ok)

	d.finish(userID)
	assert.False(t, d.running(userID))

	_, ok = d.start(userID, newFakePrompter())
	assert.True(t, ok)
}

func TestDialogueAsk(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	prompter := newFakePrompter()
	userID := snowflake.ID(7)

	conv, ok := d.start(userID, prompter)
	require.True(t, ok)

	// A message sent before the question is asked is not an answer
	require.True(t, d.deliverReply(userID, intake.Reply{Content: "early"}))

	type answer struct {
		reply intake.Reply
		err   error
	}

	done := make(chan answer, 1)

	go func() {
		reply, err := conv.Ask(context.Background(), intake.AwaitingScore)
		done <- answer{reply, err}
	}()

	prompter.waitSent(t)
	require.True(t, d.deliverReply(userID, intake.Reply{Content: "1500"}))

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "1500", got.reply.Content)
	assert.Equal(t, []string{intake.AwaitingScore.Prompt()}, prompter.prompts)
}

func TestDialogueAskHonoursContext(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	conv, ok := d.start(snowflake.ID(7), newFakePrompter())
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := conv.Ask(ctx, intake.AwaitingUsername)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDialoguePromptFailure(t *testing.T) {
	t.Parallel()

	prompter := newFakePrompter()
	prompter.err = ErrDirectMessagesOff

	conv, ok := newDialogues().start(snowflake.ID(7), prompter)
	require.True(t, ok)

	_, err := conv.Ask(context.Background(), intake.AwaitingUsername)
	require.ErrorIs(t, err, ErrDirectMessagesOff)

	_, err = conv.ChooseGuild(context.Background(), nil)
	require.ErrorIs(t, err, ErrDirectMessagesOff)
}

func TestDialogueChooseGuild(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	prompter := newFakePrompter()
	userID := snowflake.ID(7)
	options := []intake.GuildOption{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}

	conv, ok := d.start(userID, prompter)
	require.True(t, ok)

	done := make(chan snowflake.ID, 1)

	go func() {
		guildID, err := conv.ChooseGuild(context.Background(), options)
		assert.NoError(t, err)
		done <- guildID
	}()

	prompter.waitSent(t)
	require.True(t, d.deliverGuild(userID, 2))

	assert.Equal(t, snowflake.ID(2), <-done)
	assert.Equal(t, [][]intake.GuildOption{options}, prompter.menus)
}

func TestDeliverWithoutDialogue(t *testing.T) {
	t.Parallel()

	d := newDialogues()

	assert.False(t, d.deliverReply(snowflake.ID(7), intake.Reply{Content: "hello"}))
	assert.False(t, d.deliverGuild(snowflake.ID(7), 1))
}

func TestDeliverDropsUnreadReplies(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	userID := snowflake.ID(7)

	_, ok := d.start(userID, newFakePrompter())
	require.True(t, ok)

	assert.True(t, d.deliverReply(userID, intake.Reply{Content: "first"}))
	assert.False(t, d.deliverReply(userID, intake.Reply{Content: "second"}))
}

func TestDialogueDrivesIntakeFlowSteps(t *testing.T) {
	t.Parallel()

	d := newDialogues()
	prompter := newFakePrompter()
	userID := snowflake.ID(7)

	conv, ok := d.start(userID, prompter)
	require.True(t, ok)

	answers := []intake.Reply{
		{Content: "player"},
		{Content: "42"},
		{Attachments: []string{"https://cdn.example/1.png"}},
		{Attachments: []string{"https://cdn.example/2.png"}},
	}
	states := []intake.State{intake.AwaitingUsername, intake.AwaitingScore, intake.AwaitingImage1, intake.AwaitingImage2}

	errs := make(chan error, 1)

	go func() {
		for i, state := range states {
			reply, err := conv.Ask(context.Background(), state)
			if err != nil {
				errs <- err
				return
			}

			if reply.Content != answers[i].Content {
				errs <- errors.New("answer delivered to the wrong question")
				return
			}
		}

		errs <- nil
	}()

	for _, answer := range answers {
		prompter.waitSent(t)
		require.True(t, d.deliverReply(userID, answer))
	}

	require.NoError(t, <-errs)
	assert.Len(t, prompter.prompts, len(states))
}
