package core

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

type HelpCommand struct {
	Prefix string
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of commands" }
func (c *HelpCommand) Aliases() []string   { return nil }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }
func (c *HelpCommand) Usage() string       { return "[command]" }
func (c *HelpCommand) Level() int          { return core.LevelEveryone }
func (c *HelpCommand) Hidden() bool        { return false }
func (c *HelpCommand) UserPermissions() []int64 {
	return nil
}
func (c *HelpCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks, discordgo.PermissionSendMessages}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}
	session, msg := context.Session, context.Event.Message

	embed := core.Embed(session)

	name, ok := context.Args().String(false)
	if !ok {
		embed.Title = "Help menu"
		embed.Fields = helpFields(context.Registry.All(), context.Level)
		return core.ReplyEmbed(session, msg, embed)
	}

	cmd, ok := context.Registry.Get(name)
	if !ok {
		embed.Description = ":warning: Command not found"
		embed.Color = core.ColorWarning
		return core.ReplyEmbed(session, msg, embed)
	}

	embed.Title, embed.Description = helpDetail(cmd, c.Prefix)
	_, err := session.ChannelMessageSendEmbed(msg.ChannelID, embed)
	return err
}

// helpFields groups the visible commands by level, showing only the levels
// the caller has reached.
func helpFields(cmds []core.Command, level int) []*discordgo.MessageEmbedField {
	var fields []*discordgo.MessageEmbedField
	for lvl := core.LevelOwner; lvl >= core.LevelEveryone; lvl-- {
		if lvl > level {
			continue
		}
		var lines []string
		for _, cmd := range cmds {
			if cmd.Hidden() || cmd.Level() != lvl {
				continue
			}
			disabled := ""
			if core.IsDisabled(cmd) {
				disabled = " **(Disabled)**"
			}
			desc := cmd.Description()
			if desc == "" {
				desc = "No short description configured"
			}
			lines = append(lines, fmt.Sprintf("`%s`%s - %s", cmd.Name(), disabled, desc))
		}
		if len(lines) == 0 {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  core.LevelName(lvl),
			Value: "- " + strings.Join(lines, "\n- "),
		})
	}
	return fields
}

func helpDetail(cmd core.Command, prefix string) (title, description string) {
	title = "`" + cmd.Name() + "`"
	if core.IsDisabled(cmd) {
		title += " (Disabled)"
	}

	var b strings.Builder
	if cat := cmd.Category(); cat != "" {
		b.WriteString("\nCategory: " + cat)
	}
	if usage := cmd.Usage(); usage != "" {
		b.WriteString("\nUsage: `" + prefix + cmd.Name() + " " + usage + "`")
	}
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		b.WriteString("\nAliases: " + strings.Join(aliases, ", "))
	}
	if lvl := cmd.Level(); lvl > 0 {
		b.WriteString(fmt.Sprintf("\nMinimum level: %d", lvl))
	}
	bot, user := cmd.BotPermissions(), cmd.UserPermissions()
	if len(bot) > 0 || len(user) > 0 {
		b.WriteString("\nRequired permissions:")
		if len(bot) > 0 {
			b.WriteString("\n- Bot permission requirements: " + permissionList(bot))
		}
		if len(user) > 0 {
			b.WriteString("\n- User permission requirements: " + permissionList(user))
		}
	}
	if desc := cmd.Description(); desc != "" {
		b.WriteString("\n\n" + desc)
	}

	description = b.String()
	if description == "" {
		description = "No params or help stuff added to command"
	}
	return title, description
}

func permissionList(perms []int64) string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = core.PermissionName(p)
	}
	return strings.Join(names, ", ")
}
