package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

const settingsCategory = "⚙️ Settings"

type ToggleCommand struct{}

func (c *ToggleCommand) Name() string        { return "cmd-toggle" }
func (c *ToggleCommand) Description() string { return "Enable or disable a command or category" }
func (c *ToggleCommand) Aliases() []string   { return nil }
func (c *ToggleCommand) Category() string    { return settingsCategory }
func (c *ToggleCommand) Usage() string       { return "" }
func (c *ToggleCommand) Level() int          { return core.LevelAdmin }
func (c *ToggleCommand) Hidden() bool        { return false }
func (c *ToggleCommand) UserPermissions() []int64 {
	return nil
}
func (c *ToggleCommand) BotPermissions() []int64 {
	return nil
}

func (c *ToggleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "target",
				Description:  "Command name or category",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable or disable",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "enable"},
					{Name: "Disable", Value: "disable"},
				},
			},
		},
	}
}

func (c *ToggleCommand) Autocomplete(ctx *core.SlashContext) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	_, opts := ctx.Options()
	focused, ok := core.Focused(opts)
	if !ok {
		return nil, nil
	}
	query := strings.ToLower(focused.StringValue())

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, t := range toggleTargets(ctx.Registry) {
		if len(choices) == 25 {
			break
		}
		if strings.Contains(strings.ToLower(t), query) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: t, Value: t})
		}
	}
	return choices, nil
}

func (c *ToggleCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}
	s, e := sctx.Session, sctx.Event

	_, opts := sctx.Options()
	target := strings.TrimSpace(opts["target"].StringValue())
	state := opts["state"].StringValue()

	if err := checkToggle(sctx.Registry, target, state); err != nil {
		return err
	}

	embed := core.Embed(s)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Use /cmd-status to check which commands are disabled."}

	var err error
	if state == "disable" {
		err = sctx.Storage.DisableCommand(context.Background(), e.GuildID, target)
		embed.Description = fmt.Sprintf("Command/category `%s` disabled.", target)
	} else {
		err = sctx.Storage.EnableCommand(context.Background(), e.GuildID, target)
		embed.Description = fmt.Sprintf("Command/category `%s` enabled.", target)
	}
	if err != nil {
		return fmt.Errorf("toggle %s: %w", target, err)
	}
	return core.EditResponseEmbed(s, e, embed, nil)
}

// toggleTargets lists every command name and category, settings excluded.
func toggleTargets(reg *core.Registry) []string {
	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, cat := range reg.Categories() {
		if cat != settingsCategory {
			add(cat)
		}
	}
	for _, cmd := range append(reg.All(), reg.SlashCommands()...) {
		if cmd.Category() != settingsCategory {
			add(cmd.Name())
		}
	}
	return out
}

func checkToggle(reg *core.Registry, target, state string) error {
	if target == settingsCategory || strings.HasPrefix(target, "cmd-") {
		if state == "disable" {
			return core.NewUserError("You can't disable the settings commands.")
		}
		return nil
	}
	for _, t := range toggleTargets(reg) {
		if t == target {
			return nil
		}
	}
	return core.NewUserError(fmt.Sprintf("No command or category named `%s`.", core.CleanText(target)))
}
