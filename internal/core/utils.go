package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// EmbedColor is Discord blurple.
const EmbedColor = 0x5865F2

const (
	ColorSuccess = 0x57F287
	ColorWarning = 0xFEE75C
	ColorError   = 0xED4245
)

// Embed returns an embed with the bot's colour and footer.
func Embed(s *discordgo.Session) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Color: EmbedColor}
	if s != nil && s.State != nil && s.State.User != nil {
		u := s.State.User
		e.Footer = &discordgo.MessageEmbedFooter{
			Text:    u.String(),
			IconURL: u.AvatarURL("64"),
		}
	}
	return e
}

// Reply answers msg in its channel, referencing it.
func Reply(s *discordgo.Session, msg *discordgo.Message, content string) error {
	_, err := s.ChannelMessageSendReply(msg.ChannelID, content, msg.Reference())
	return err
}

func ReplyEmbed(s *discordgo.Session, msg *discordgo.Message, embed *discordgo.MessageEmbed) error {
	_, err := s.ChannelMessageSendEmbedReply(msg.ChannelID, embed, msg.Reference())
	return err
}

func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondDeferredEphemeral acknowledges an interaction; the answer follows
// through EditResponse.
func RespondDeferredEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

// RespondDeferredUpdate acknowledges a component without a new message.
func RespondDeferredUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func EditResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

// EditResponseEmbed replaces the response with embed and, when components is
// not nil, its components.
func EditResponseEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	empty := ""
	edit := &discordgo.WebhookEdit{
		Content: &empty,
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	}
	if components != nil {
		edit.Components = &components
	}
	_, err := s.InteractionResponseEdit(i.Interaction, edit)
	return err
}

// UpdateMessage replaces the message a component belongs to and drops its
// components.
func UpdateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
}

// Autocomplete answers an autocomplete interaction.
func Autocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// JoinLimited joins lines with newlines, dropping the lines that would push
// the result past limit runes and noting how many were left out.
func JoinLimited(lines []string, limit int) string {
	var b strings.Builder
	used := 0
	for i, line := range lines {
		n := len([]rune(line)) + 1
		if used+n > limit-20 {
			b.WriteString("… and " + strconv.Itoa(len(lines)-i) + " more")
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
		used += n
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// InteractionUser is the member's user in guilds and the user in DMs.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Plural picks the plural form only when n is above one.
func Plural(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}

// CleanText stops backticks and @ from forming code blocks or mentions by
// following each with a zero-width space.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "`", "`\u200b")
	return strings.ReplaceAll(text, "@", "@\u200b")
}

func WrapCodeblock(s, lang string) string {
	return "```" + lang + "\n" + s + "\n```"
}

func WrapInlineCode(s string) string {
	return "`" + s + "`"
}

var codeblockRe = regexp.MustCompile("(?s)^\\s*`{3,4}(\\w*)[^\\n]*\\n(.*?)\\n?[ \\t]*`{3,4}\\s*$")

// ParseCodeblock returns the code inside a fenced block, or script as is
// when it is not one.
func ParseCodeblock(script string) string {
	if m := codeblockRe.FindStringSubmatch(script); m != nil {
		return m[2]
	}
	return script
}

// ResolveLevel maps what is known about a member to a permission level.
func ResolveLevel(isBotAdmin, isGuildOwner bool, perms int64) int {
	switch {
	case isBotAdmin:
		return LevelOwner
	case isGuildOwner || perms&discordgo.PermissionAdministrator != 0:
		return LevelAdmin
	case perms&discordgo.PermissionManageMessages != 0:
		return LevelModerator
	default:
		return LevelEveryone
	}
}

func LevelName(level int) string {
	switch level {
	case LevelOwner:
		return "Bot owners"
	case LevelAdmin:
		return "Admins"
	case LevelModerator:
		return "Other"
	default:
		return "No level"
	}
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Timestamp formats t as a Discord relative timestamp.
func Timestamp(t time.Time) string {
	return "<t:" + strconv.FormatInt(t.Unix(), 10) + ":R>"
}
