package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/keshon/support-bot/internal/core"
)

var snowflakeRe = regexp.MustCompile(`^\d{17,20}$`)

type DeployCommand struct{}

func (c *DeployCommand) Name() string        { return "deploy" }
func (c *DeployCommand) Description() string { return "Deploy slash commands" }
func (c *DeployCommand) Aliases() []string   { return nil }
func (c *DeployCommand) Category() string    { return "🛠️ Maintenance" }
func (c *DeployCommand) Usage() string       { return "[guild|global|reset] [guild id]" }
func (c *DeployCommand) Level() int          { return core.LevelOwner }
func (c *DeployCommand) Hidden() bool        { return false }
func (c *DeployCommand) UserPermissions() []int64 {
	return nil
}
func (c *DeployCommand) BotPermissions() []int64 {
	return nil
}

func (c *DeployCommand) Run(ctx interface{}) error {
	mctx, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}
	session, msg := mctx.Session, mctx.Event.Message
	args := mctx.Args()

	scope, _ := args.String(false)
	explicit, _ := args.String(false, func(s string) bool { return snowflakeRe.MatchString(s) })

	guildID, reset, err := deployTarget(scope, explicit, msg.GuildID)
	if err != nil {
		return err
	}

	embed := core.Embed(session)
	if reset {
		if err := mctx.Control.ResetCommands(context.Background(), guildID); err != nil {
			mctx.Logger.Error().Err(err).Str("guild_id", guildID).Msg("failed to reset commands")
			embed.Description = ":x: Failed to reset slash commands."
			embed.Color = core.ColorError
			return core.ReplyEmbed(session, msg, embed)
		}
		embed.Description = "Removed all slash commands from " + deployScope(guildID) + "."
		embed.Color = core.ColorSuccess
		return core.ReplyEmbed(session, msg, embed)
	}

	n, err := mctx.Control.DeployCommands(context.Background(), guildID)
	if err != nil {
		mctx.Logger.Error().Err(err).Str("guild_id", guildID).Msg("failed to deploy commands")
		embed.Description = ":x: Failed to deploy slash commands."
		embed.Color = core.ColorError
		return core.ReplyEmbed(session, msg, embed)
	}

	embed.Description = fmt.Sprintf("Successfully deployed %d %s to %s.", n, core.Plural(n, "command", "commands"), deployScope(guildID))
	embed.Color = core.ColorSuccess
	return core.ReplyEmbed(session, msg, embed)
}

// deployTarget resolves the arguments of deploy. An empty guildID means the
// global command set.
func deployTarget(scope, explicit, current string) (guildID string, reset bool, err error) {
	switch strings.ToLower(scope) {
	case "", "guild":
	case "global":
		return "", false, nil
	case "reset":
		reset = true
	default:
		if !snowflakeRe.MatchString(scope) {
			return "", false, core.NewUserError("Unknown scope `" + core.CleanText(scope) + "`, use `guild`, `global` or `reset`.")
		}
		explicit = scope
	}

	guildID = explicit
	if guildID == "" {
		guildID = current
	}
	if guildID == "" && !reset {
		return "", false, core.NewUserError("Specify a guild ID when deploying outside a server.")
	}
	return guildID, reset, nil
}

func deployScope(guildID string) string {
	if guildID == "" {
		return "all servers"
	}
	return "guild `" + guildID + "`"
}
