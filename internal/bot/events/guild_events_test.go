package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/events"
	"github.com/proofboard/proofboard/internal/database/dbtest"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDirectory struct {
	guilds map[snowflake.ID]intake.GuildOption
}

func (d *recordingDirectory) Put(guild intake.GuildOption) {
	d.guilds[guild.ID] = guild
}

func (d *recordingDirectory) Remove(guildID snowflake.ID) {
	delete(d.guilds, guildID)
}

type failingBootstrapper struct{}

func (failingBootstrapper) BootstrapOwner(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
	return false, errors.New("database unavailable")
}

func TestObserveBootstrapsFirstOwner(t *testing.T) {
	t.Parallel()

	registry := dbtest.New(t).Model().Registry()
	directory := &recordingDirectory{guilds: make(map[snowflake.ID]intake.GuildOption)}
	handler := events.NewGuildEventHandler(registry, directory, zap.NewNop())
	ctx := context.Background()

	guild := intake.GuildOption{ID: 100, Name: "Arcade", OwnerID: 1}
	handler.Observe(ctx, guild)

	// A later observation with a new platform owner keeps the existing grant
	handler.Observe(ctx, intake.GuildOption{ID: 100, Name: "Arcade", OwnerID: 2})

	owners, err := registry.ListOwners(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{1}, owners)
	assert.Equal(t, "Arcade", directory.guilds[100].Name)
}

func TestObserveWithoutOwnerOnlyRecordsGuild(t *testing.T) {
	t.Parallel()

	registry := dbtest.New(t).Model().Registry()
	directory := &recordingDirectory{guilds: make(map[snowflake.ID]intake.GuildOption)}
	handler := events.NewGuildEventHandler(registry, directory, zap.NewNop())

	handler.Observe(context.Background(), intake.GuildOption{ID: 100, Name: "Arcade"})

	hasOwner, err := registry.HasOwner(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, hasOwner)
	assert.Contains(t, directory.guilds, snowflake.ID(100))
}

func TestObserveSurvivesBootstrapFailure(t *testing.T) {
	t.Parallel()

	directory := &recordingDirectory{guilds: make(map[snowflake.ID]intake.GuildOption)}
	handler := events.NewGuildEventHandler(failingBootstrapper{}, directory, zap.NewNop())

	handler.Observe(context.Background(), intake.GuildOption{ID: 100, Name: "Arcade", OwnerID: 1})

	assert.Contains(t, directory.guilds, snowflake.ID(100))
}
