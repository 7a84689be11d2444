package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

type StatusCommand struct{}

func (c *StatusCommand) Name() string { return "cmd-status" }
func (c *StatusCommand) Description() string {
	return "Check which commands are enabled or disabled"
}
func (c *StatusCommand) Aliases() []string { return nil }
func (c *StatusCommand) Category() string  { return settingsCategory }
func (c *StatusCommand) Usage() string     { return "" }
func (c *StatusCommand) Level() int        { return core.LevelModerator }
func (c *StatusCommand) Hidden() bool      { return false }
func (c *StatusCommand) UserPermissions() []int64 {
	return nil
}
func (c *StatusCommand) BotPermissions() []int64 {
	return nil
}

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StatusCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}

	disabledNames, err := sctx.Storage.DisabledCommands(context.Background(), sctx.Event.GuildID)
	if err != nil {
		return fmt.Errorf("disabled commands: %w", err)
	}
	enabled, disabled := splitByState(toggleTargets(sctx.Registry), disabledNames)

	embed := core.Embed(sctx.Session)
	embed.Title = "Commands Status"
	embed.Description = "Commands can be toggled one by one or by category with `/cmd-toggle`."
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Disabled", Value: core.Truncate(strings.Join(disabled, ", "), 1024)},
		{Name: "Enabled", Value: core.Truncate(strings.Join(enabled, ", "), 1024)},
	}
	return core.EditResponseEmbed(sctx.Session, sctx.Event, embed, nil)
}

func splitByState(targets, disabledNames []string) (enabled, disabled []string) {
	for _, t := range targets {
		if slices.Contains(disabledNames, t) {
			disabled = append(disabled, "`"+t+"`")
		} else {
			enabled = append(enabled, "`"+t+"`")
		}
	}
	if len(disabled) == 0 {
		disabled = []string{"_none_"}
	}
	if len(enabled) == 0 {
		enabled = []string{"_none_"}
	}
	return enabled, disabled
}
