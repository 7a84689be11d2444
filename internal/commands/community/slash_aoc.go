package community

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/aoc"
	"github.com/keshon/support-bot/internal/core"
)

const (
	aocTimeout    = 20 * time.Second
	notConfigured = "The Advent of Code leaderboard is not configured."
)

type AoCCommand struct{}

func (c *AoCCommand) Name() string        { return "aoc" }
func (c *AoCCommand) Description() string { return "Commands related to Advent of Code" }
func (c *AoCCommand) Aliases() []string   { return nil }
func (c *AoCCommand) Category() string    { return category }
func (c *AoCCommand) Usage() string       { return "" }
func (c *AoCCommand) Level() int          { return core.LevelEveryone }
func (c *AoCCommand) Hidden() bool        { return false }
func (c *AoCCommand) UserPermissions() []int64 {
	return nil
}
func (c *AoCCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks}
}

func (c *AoCCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "leaderboard",
				Description: "Show the private leaderboard",
			},
		},
	}
}

func (c *AoCCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}
	s, e := sctx.Session, sctx.Event

	if sub, _ := sctx.Options(); sub != "leaderboard" {
		return core.EditResponse(s, e, "Unknown subcommand.")
	}
	if sctx.AoC == nil {
		return core.EditResponse(s, e, notConfigured)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), aocTimeout)
	defer cancel()

	lb, err := sctx.AoC.Leaderboard(reqCtx)
	if errors.Is(err, aoc.ErrNotConfigured) {
		return core.EditResponse(s, e, notConfigured)
	}
	if err != nil {
		return fmt.Errorf("aoc leaderboard: %w", err)
	}

	embed := core.Embed(s)
	embed.Title = "Advent of Code leaderboard"
	embed.URL = leaderboardURL(sctx.AoC, time.Now())
	embed.Description = leaderboardDescription(lb)
	return core.EditResponseEmbed(s, e, embed, nil)
}

func leaderboardDescription(lb *aoc.Leaderboard) string {
	if lb == nil || len(lb.Members) == 0 {
		return "Nobody has joined yet."
	}
	return core.Truncate(lb.Format(), maxDescription)
}

func leaderboardURL(c *aoc.Client, now time.Time) string {
	if c == nil || c.LeaderboardID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d/leaderboard/private/view/%s", aoc.DefaultBaseURL, c.EventYear(now), c.LeaderboardID)
}
