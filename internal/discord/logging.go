package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// locationNames resolves guild and channel names, from the state first and
// then from the API. Unknown names are empty.
func locationNames(s *discordgo.Session, guildID, channelID string) (guild, channel string) {
	if c, err := s.State.Channel(channelID); err == nil {
		channel = c.Name
	} else if c, err := s.Channel(channelID); err == nil {
		channel = c.Name
	}
	if guildID == "" {
		return guild, channel
	}
	if g, err := s.State.Guild(guildID); err == nil {
		guild = g.Name
	} else if g, err := s.Guild(guildID); err == nil {
		guild = g.Name
	}
	return guild, channel
}

// messageLogger tags l with where and by whom m was written.
func messageLogger(l zerolog.Logger, s *discordgo.Session, m *discordgo.Message) zerolog.Logger {
	guild, channel := locationNames(s, m.GuildID, m.ChannelID)
	ctx := l.With().
		Str("guild_id", m.GuildID).
		Str("guild", guild).
		Str("channel_id", m.ChannelID).
		Str("channel", channel)
	if m.Author != nil {
		ctx = ctx.Str("user", m.Author.String()).Str("user_id", m.Author.ID)
	}
	return ctx.Logger()
}
