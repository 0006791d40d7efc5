package bot

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/proofboard/proofboard/internal/intake"
	"github.com/sourcegraph/conc/pool"
)

// maxMembershipChecks bounds concurrent member lookups for one submitter.
const maxMembershipChecks = 8

// MembershipChecker reports whether a user belongs to a guild.
type MembershipChecker func(ctx context.Context, guildID, userID snowflake.ID) (bool, error)

// guildDirectory mirrors the guilds the bot is connected to.
type guildDirectory struct {
	mu     sync.RWMutex
	guilds map[snowflake.ID]intake.GuildOption
}

func newGuildDirectory() *guildDirectory {
	return &guildDirectory{guilds: make(map[snowflake.ID]intake.GuildOption)}
}

func (d *guildDirectory) Put(guild intake.GuildOption) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.guilds[guild.ID] = guild
}

func (d *guildDirectory) Remove(guildID snowflake.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.guilds, guildID)
}

func (d *guildDirectory) lookup(guildID snowflake.ID) (intake.GuildOption, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	guild, ok := d.guilds[guildID]

	return guild, ok
}

// all returns every known guild sorted by name.
func (d *guildDirectory) all() []intake.GuildOption {
	d.mu.RLock()
	guilds := make([]intake.GuildOption, 0, len(d.guilds))
	for _, guild := range d.guilds {
		guilds = append(guilds, guild)
	}
	d.mu.RUnlock()

	sortGuilds(guilds)

	return guilds
}

// eligible returns the guilds userID is a member of, sorted by name.
// Guilds whose membership lookup fails are left out.
func (d *guildDirectory) eligible(
	ctx context.Context, userID snowflake.ID, isMember MembershipChecker,
) []intake.GuildOption {
	p := pool.NewWithResults[*intake.GuildOption]().WithMaxGoroutines(maxMembershipChecks)

	for _, guild := range d.all() {
		p.Go(func() *intake.GuildOption {
			ok, err := isMember(ctx, guild.ID, userID)
			if err != nil || !ok {
				return nil
			}

			return &guild
		})
	}

	var guilds []intake.GuildOption
	for _, guild := range p.Wait() {
		if guild != nil {
			guilds = append(guilds, *guild)
		}
	}

	sortGuilds(guilds)

	return guilds
}

func sortGuilds(guilds []intake.GuildOption) {
	slices.SortFunc(guilds, func(a, b intake.GuildOption) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
