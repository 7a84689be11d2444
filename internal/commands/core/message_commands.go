package core

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/jedib0t/go-pretty/table"
	"github.com/keshon/support-bot/internal/core"
)

type CommandsCommand struct{}

func (c *CommandsCommand) Name() string        { return "commands" }
func (c *CommandsCommand) Description() string { return "Get a list of all registered commands" }
func (c *CommandsCommand) Aliases() []string   { return []string{"listcommands", "commandlist"} }
func (c *CommandsCommand) Category() string    { return "🕯️ Information" }
func (c *CommandsCommand) Usage() string       { return "" }
func (c *CommandsCommand) Level() int          { return core.LevelEveryone }
func (c *CommandsCommand) Hidden() bool        { return false }
func (c *CommandsCommand) UserPermissions() []int64 {
	return nil
}
func (c *CommandsCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks, discordgo.PermissionSendMessages}
}

func (c *CommandsCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}

	embed := core.Embed(context.Session)
	embed.Title = "Here is a list of my commands:"
	embed.Description = core.WrapCodeblock(commandTable(context.Registry.All(), context.Registry.SlashCommands()), "")

	return core.ReplyEmbed(context.Session, context.Event.Message, embed)
}

// commandTable renders every text and slash command, hidden ones included.
func commandTable(text, slash []core.Command) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Command", "Type", "Level", "Aliases"})

	rows := make([]table.Row, 0, len(text)+len(slash))
	for _, cmd := range text {
		rows = append(rows, table.Row{cmd.Name(), "text", strconv.Itoa(cmd.Level()), strings.Join(cmd.Aliases(), ", ")})
	}
	for _, cmd := range slash {
		rows = append(rows, table.Row{"/" + cmd.Name(), "slash", strconv.Itoa(cmd.Level()), ""})
	}
	t.AppendRows(rows)

	out := t.Render()
	if len(out) > discordMaxEmbedLength-10 {
		out = core.Truncate(out, discordMaxEmbedLength-10)
	}
	return out
}
