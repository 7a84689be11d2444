package community

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

const maxDescription = 4096

// entry is what quotes and sladders have in common for listing.
type entry struct {
	ID      uint
	Content string
}

func listDescription(entries []entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("`%d`: %s", e.ID, e.Content)
	}
	return core.JoinLimited(lines, maxDescription)
}

func searchDescription(entries []entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d: %s", e.ID, e.Content)
	}
	return core.JoinLimited(lines, maxDescription)
}

func idOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (uint, bool) {
	o, ok := opts["id"]
	if !ok {
		return 0, false
	}
	id := o.IntValue()
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func boolOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if o, ok := opts[name]; ok {
		return o.BoolValue()
	}
	return false
}

func idOptionDef(noun, verb string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: fmt.Sprintf("The id of the %s to %s.", noun, verb),
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func publicOptionDef(noun string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "public",
		Description: fmt.Sprintf("Send the %s to the channel and not just reply to the slash command", noun),
	}
}

func floatPtr(f float64) *float64 { return &f }

// show answers with embed, or posts it to the channel when public is set.
func show(ctx *core.SlashContext, embed *discordgo.MessageEmbed, noun string, public bool) error {
	s, e := ctx.Session, ctx.Event
	if !public {
		return core.EditResponseEmbed(s, e, embed, nil)
	}
	if e.ChannelID == "" {
		return core.EditResponse(s, e, "No channel to send the "+noun+" to.")
	}
	if _, err := s.ChannelMessageSendEmbed(e.ChannelID, embed); err != nil {
		ctx.Logger.Warn().Err(err).Str("channel_id", e.ChannelID).Msg("failed to send " + noun)
		return core.EditResponse(s, e, "Failed to send "+noun+" to channel.")
	}
	return core.EditResponse(s, e, capitalize(noun)+" sent to channel.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// calledBy is the footer text naming the caller and, when known, the user
// who stored the entry.
func calledBy(caller, author string) string {
	text := "Called by " + caller
	if author != "" {
		text += ", Quoted by " + author
	}
	return text
}

// memberTag looks userID up in the state cache only.
func memberTag(s *discordgo.Session, guildID, userID string) string {
	if s == nil || s.State == nil {
		return ""
	}
	if m, err := s.State.Member(guildID, userID); err == nil && m.User != nil {
		return m.User.String()
	}
	return ""
}

func footer(u *discordgo.User, text string) *discordgo.MessageEmbedFooter {
	f := &discordgo.MessageEmbedFooter{Text: text}
	if u != nil {
		f.IconURL = u.AvatarURL("64")
	}
	return f
}

func userString(u *discordgo.User) string {
	if u == nil {
		return "unknown"
	}
	return u.String()
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
