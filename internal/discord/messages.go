package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/parser"
)

const (
	genericFailure = "An error occurred while running the command, please try again later or contact the bot owner if the problem persists."
	blockIconURL   = "https://media.discordapp.net/attachments/877474626710671371/903598778827833344/help_stop.png"
)

// Prefixes returns the prefixes a message may start with. In guilds a
// mention of the bot works as well.
func Prefixes(prefix, botID string, inGuild bool) []string {
	out := []string{prefix}
	if inGuild && botID != "" {
		out = append(out, "<@"+botID+"> ", "<@!"+botID+"> ")
	}
	return out
}

func acceptedChannelType(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread:
		return true
	default:
		return false
	}
}

func (b *Bot) acceptedChannel(s *discordgo.Session, channelID string) bool {
	c, err := s.State.Channel(channelID)
	if err != nil {
		if c, err = s.Channel(channelID); err != nil {
			b.logger.Debug().Err(err).Str("channel_id", channelID).Msg("unknown channel, message skipped")
			return false
		}
	}
	return acceptedChannelType(c.Type)
}

func (b *Bot) normalize(content string) string {
	if b.svc.Filter == nil {
		return content
	}
	return b.svc.Filter.Replace(content)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.WebhookID != "" {
		return
	}
	if !b.acceptedChannel(s, m.ChannelID) {
		return
	}

	content := b.normalize(m.Content)
	res := b.parser.Parse(
		parser.Message{Content: content, AuthorIsBot: m.Author.Bot},
		Prefixes(b.cfg.Prefix, s.State.User.ID, m.GuildID != ""),
	)
	b.svc.Metrics.ObserveParse(res.Code.String())

	if res.Success {
		b.dispatchMessage(s, m, res)
		return
	}
	b.logParseFailure(s, m.Message, res)
	b.postMessage(s, m.Message, content, "")
}

// onMessageUpdate runs the blocklist again over edited messages.
func (b *Bot) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot || m.Content == "" {
		return
	}
	before := ""
	if m.BeforeUpdate != nil {
		if m.BeforeUpdate.Content == m.Content {
			return
		}
		before = m.BeforeUpdate.Content
	}
	if !b.acceptedChannel(s, m.ChannelID) {
		return
	}
	b.handleBlocklisted(s, m.Message, b.normalize(m.Content), before)
}

func (b *Bot) logParseFailure(s *discordgo.Session, m *discordgo.Message, res parser.Result) {
	switch parser.SeverityOf(res.Code) {
	case parser.SeverityIgnore:
	case parser.SeverityDebug:
		if m.Author.ID != s.State.User.ID {
			b.logger.Debug().Str("code", res.Code.String()).Str("user_id", m.Author.ID).Msg(res.Error)
		}
	default:
		b.logger.Warn().Str("code", res.Code.String()).Str("user_id", m.Author.ID).Msg(res.Error)
	}
}

func (b *Bot) dispatchMessage(s *discordgo.Session, m *discordgo.MessageCreate, res parser.Result) {
	cmd, ok := b.reg.Get(res.Command)
	if !ok {
		return
	}

	ctx := &core.MessageContext{
		Services: b.svc,
		Session:  s,
		Event:    m,
		Parsed:   res,
		Level:    b.memberLevel(s, m.GuildID, m.ChannelID, m.Author.ID),
	}
	b.logger.Debug().
		Str("command", cmd.Name()).
		Str("user", m.Author.String()).
		Str("user_id", m.Author.ID).
		Msg("command called")

	if err := cmd.Run(ctx); err != nil {
		if replyErr := core.Reply(s, m.Message, errorReply(err)); replyErr != nil {
			b.logger.Warn().Err(replyErr).Str("command", cmd.Name()).Msg("failed to report command error")
		}
	}
}

// errorReply is what the invoking user sees when a command fails.
func errorReply(err error) string {
	var userErr *core.UserError
	if errors.As(err, &userErr) {
		return userErr.Message
	}
	return genericFailure
}

// postMessage handles ordinary chat: the blocklist first, then canned
// replies and reactions for messages that survived it.
func (b *Bot) postMessage(s *discordgo.Session, m *discordgo.Message, content, before string) {
	if b.handleBlocklisted(s, m, content, before) || b.svc.Filter == nil {
		return
	}
	if m.Author.ID == s.State.User.ID {
		return
	}

	for _, reply := range b.svc.Filter.Responses(content, m.Author.ID, imageURLs(m)...) {
		if err := core.Reply(s, m, reply); err != nil {
			b.logger.Warn().Err(err).Str("channel_id", m.ChannelID).Msg("failed to send canned reply")
		}
	}
	for _, emoji := range b.svc.Filter.Reactions(content) {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, reactionEmoji(emoji)); err != nil {
			b.logger.Warn().Err(err).Str("emoji", emoji).Msg("failed to react")
		}
	}
}

// handleBlocklisted deletes m when its whole content is blocklisted and
// reports whether it did.
func (b *Bot) handleBlocklisted(s *discordgo.Session, m *discordgo.Message, content, before string) bool {
	if !b.cfg.WordBlockEnabled || b.svc.Filter == nil {
		return false
	}
	if m.Type != discordgo.MessageTypeDefault && m.Type != discordgo.MessageTypeReply {
		return false
	}
	word, ok := b.svc.Filter.Match(content)
	if !ok {
		return false
	}

	b.svc.Metrics.ObserveBlocked()
	logger := messageLogger(b.logger, s, m)
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Warn().Err(err).Msg("failed to delete blocklisted message")
	} else {
		ev := logger.Info().Str("word", word).Str("content", content)
		if before != "" {
			ev = ev.Str("edited_from", before)
		}
		ev.Msg("deleted blocklisted message")
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, blocklistEmbed(s, word, m.Author.ID, time.Now())); err != nil {
		logger.Warn().Err(err).Msg("failed to send blocklist notice")
	}
	return true
}

func blocklistEmbed(s *discordgo.Session, word, authorID string, now time.Time) *discordgo.MessageEmbed {
	embed := core.Embed(s)
	embed.Author = &discordgo.MessageEmbedAuthor{Name: "Stop, my g", IconURL: blockIconURL}
	embed.Fields = []*discordgo.MessageEmbedField{{
		Name:  fmt.Sprintf("Do not %q me!", word),
		Value: fmt.Sprintf("I do not approve of this <@%s> :woozy_face: :gun:", authorID),
	}}
	embed.Timestamp = now.Format(time.RFC3339)
	return embed
}

func imageURLs(m *discordgo.Message) []string {
	var out []string
	for _, e := range m.Embeds {
		if e.Image != nil && e.Image.URL != "" {
			out = append(out, e.Image.URL)
		}
	}
	return out
}

// reactionEmoji turns a custom emoji mention into the name:id form the API
// expects. Unicode emojis are returned unchanged.
func reactionEmoji(emoji string) string {
	if !strings.HasPrefix(emoji, "<") || !strings.HasSuffix(emoji, ">") {
		return emoji
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(emoji, "<"), ">")
	inner = strings.TrimPrefix(inner, "a")
	return strings.TrimPrefix(inner, ":")
}
