package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

// loadOwners adds the application owner and its team members to the bot
// admins.
func (b *Bot) loadOwners(s *discordgo.Session) {
	app, err := s.Application("@me")
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to fetch application owners")
		return
	}
	owners := applicationOwners(app)

	b.mu.Lock()
	b.owners = owners
	b.mu.Unlock()

	names := make([]string, 0, len(owners))
	for id := range owners {
		names = append(names, id)
	}
	b.logger.Debug().Strs("owners", names).Msg("found application owners")
}

func applicationOwners(app *discordgo.Application) map[string]bool {
	out := map[string]bool{}
	if app == nil {
		return out
	}
	if app.Owner != nil && app.Owner.ID != "" {
		out[app.Owner.ID] = true
	}
	if app.Team != nil {
		for _, m := range app.Team.Members {
			if m.User != nil {
				out[m.User.ID] = true
			}
		}
	}
	return out
}

// isBotAdmin reports whether userID is in BOT_ADMINS or owns the application.
func (b *Bot) isBotAdmin(userID string) bool {
	if b.cfg.IsAdmin(userID) {
		return true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.owners[userID]
}

func (b *Bot) adminCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.owners)
	for _, id := range b.cfg.Admins {
		if !b.owners[id] {
			n++
		}
	}
	return n
}

// memberLevel resolves the level of userID in a channel from the state.
// Outside guilds only bot admins rank above everyone.
func (b *Bot) memberLevel(s *discordgo.Session, guildID, channelID, userID string) int {
	admin := b.isBotAdmin(userID)
	if guildID == "" {
		return core.ResolveLevel(admin, false, 0)
	}

	owner := false
	if g, err := s.State.Guild(guildID); err == nil {
		owner = g.OwnerID == userID
	}
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		b.logger.Debug().Err(err).Str("user_id", userID).Str("channel_id", channelID).Msg("permissions not in state")
	}
	return core.ResolveLevel(admin, owner, perms)
}

// interactionLevel uses the permissions Discord computed for the invoking
// member.
func (b *Bot) interactionLevel(s *discordgo.Session, i *discordgo.InteractionCreate) int {
	user := core.InteractionUser(i)
	if user == nil {
		return core.LevelEveryone
	}
	admin := b.isBotAdmin(user.ID)
	if i.Member == nil {
		return core.ResolveLevel(admin, false, 0)
	}

	owner := false
	if g, err := s.State.Guild(i.GuildID); err == nil {
		owner = g.OwnerID == user.ID
	}
	return core.ResolveLevel(admin, owner, i.Member.Permissions)
}
