package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/keshon/support-bot/pkg/util"
)

type LogCommand struct{}

func (c *LogCommand) Name() string        { return "cmd-log" }
func (c *LogCommand) Description() string { return "Review recently used commands" }
func (c *LogCommand) Aliases() []string   { return nil }
func (c *LogCommand) Category() string    { return settingsCategory }
func (c *LogCommand) Usage() string       { return "" }
func (c *LogCommand) Level() int          { return core.LevelModerator }
func (c *LogCommand) Hidden() bool        { return false }
func (c *LogCommand) UserPermissions() []int64 {
	return nil
}
func (c *LogCommand) BotPermissions() []int64 {
	return nil
}

func (c *LogCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LogCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}

	records, err := sctx.Storage.CommandHistory(context.Background(), sctx.Event.GuildID)
	if err != nil {
		return fmt.Errorf("command history: %w", err)
	}
	if len(records) == 0 {
		return core.EditResponse(sctx.Session, sctx.Event, "No command logs found.")
	}
	return core.EditResponse(sctx.Session, sctx.Event, formatHistory(records))
}

// formatHistory renders records newest first, dropping the oldest lines that
// do not fit in one message.
func formatHistory(records []storage.CommandHistory) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-16s\t%-15s\t%-12s\t%s\n", "# Datetime", "# Username", "# Channel", "# Command"))

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		cmd := r.Command
		if r.Args != "" {
			cmd += " " + core.Truncate(r.Args, 40)
		}
		line := fmt.Sprintf("%-16s\t%-15s\t#%-12s\t%s\n",
			util.FormatDateTpl(r.CreatedAt, "YYYY-MM-DD hh:mm"),
			r.Username,
			r.ChannelName,
			cmd,
		)
		if b.Len()+len(line) > maxContentLength {
			break
		}
		b.WriteString(line)
	}

	return codeLeftBlockWrapper + "\n" + b.String() + codeRightBlockWrapper
}
