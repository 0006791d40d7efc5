package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/bot/constants"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildDirectory(t *testing.T) {
	t.Parallel()

	d := newGuildDirectory()
	d.Put(intake.GuildOption{ID: 3, Name: "charlie"})
	d.Put(intake.GuildOption{ID: 1, Name: "Bravo"})
	d.Put(intake.GuildOption{ID: 2, Name: "alpha"})
	d.Put(intake.GuildOption{ID: 1, Name: "Bravo", OwnerID: 9})

	all := d.all()
	require.Len(t, all, 3)
	assert.Equal(t, []snowflake.ID{2, 1, 3}, guildIDs(all))

	guild, ok := d.lookup(1)
	require.True(t, ok)
	assert.Equal(t, snowflake.ID(9), guild.OwnerID)

	d.Remove(1)
	_, ok = d.lookup(1)
	assert.False(t, ok)
	assert.Len(t, d.all(), 2)
}

func TestGuildDirectoryEligible(t *testing.T) {
	t.Parallel()

	d := newGuildDirectory()
	for i := 1; i <= 6; i++ {
		d.Put(intake.GuildOption{ID: snowflake.ID(i), Name: fmt.Sprintf("guild-%d", i)})
	}

	userID := snowflake.ID(77)
	isMember := func(_ context.Context, guildID, gotUser snowflake.ID) (bool, error) {
		assert.Equal(t, userID, gotUser)

		switch guildID {
		case 2, 4:
			return true, nil
		case 5:
			return false, errors.New("rate limited")
		default:
			return guildID == 6, nil
		}
	}

	got := d.eligible(context.Background(), userID, isMember)
	assert.Equal(t, []snowflake.ID{2, 4, 6}, guildIDs(got))
}

func TestGuildDirectoryEligibleEmpty(t *testing.T) {
	t.Parallel()

	got := newGuildDirectory().eligible(context.Background(), 1, func(context.Context, snowflake.ID, snowflake.ID) (bool, error) {
		return true, nil
	})
	assert.Empty(t, got)
}

func TestGuildSelectMenuCapsOptions(t *testing.T) {
	t.Parallel()

	options := make([]intake.GuildOption, 0, 30)
	for i := 1; i <= 30; i++ {
		options = append(options, intake.GuildOption{ID: snowflake.ID(i), Name: fmt.Sprintf("guild-%02d", i)})
	}

	menu := guildSelectMenu(options)
	assert.Equal(t, constants.GuildSelectMenuCustomID, menu.CustomID)
	require.Len(t, menu.Options, constants.MaxSelectMenuOptions)
	assert.Equal(t, "guild-01", menu.Options[0].Label)
	assert.Equal(t, "1", menu.Options[0].Value)
}

func TestGuildLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", guildLabel(intake.GuildOption{ID: 42}))
	assert.Equal(t, "Speedrunners", guildLabel(intake.GuildOption{ID: 42, Name: "Speedrunners"}))

	long := guildLabel(intake.GuildOption{ID: 42, Name: string(make([]rune, 150))})
	assert.Len(t, []rune(long), 100)
}

func guildIDs(guilds []intake.GuildOption) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(guilds))
	for _, guild := range guilds {
		ids = append(ids, guild.ID)
	}

	return ids
}
