package core

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

const (
	shutdownConfirmID = "shutdown_confirm"
	shutdownCancelID  = "shutdown_cancel"
)

var shutdownConfirmation = confirmation{
	question:  ":warning: Are you sure you would like to stop the bot? (Confirm within 5 seconds)",
	yes:       "Shutting down...",
	no:        "Shutdown cancelled.",
	confirmID: shutdownConfirmID,
	cancelID:  shutdownCancelID,
}

type ShutdownCommand struct{}

func (c *ShutdownCommand) Name() string        { return "shutdown" }
func (c *ShutdownCommand) Description() string { return "Stops the bot, and exits the process" }
func (c *ShutdownCommand) Aliases() []string   { return []string{"stop"} }
func (c *ShutdownCommand) Category() string    { return "🛠️ Maintenance" }
func (c *ShutdownCommand) Usage() string       { return "" }
func (c *ShutdownCommand) Level() int          { return core.LevelOwner }
func (c *ShutdownCommand) Hidden() bool        { return true }
func (c *ShutdownCommand) UserPermissions() []int64 {
	return nil
}
func (c *ShutdownCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionSendMessages}
}

func (c *ShutdownCommand) Run(ctx interface{}) error {
	switch context := ctx.(type) {
	case *core.MessageContext:
		context.Logger.Warn().Str("user", context.Event.Author.Username).Msg("shutdown initiated")
		return shutdownConfirmation.ask(context.Session, context.Event.Message)

	case *core.ComponentContext:
		ok, err := shutdownConfirmation.resolve(context)
		if ok {
			userID, _ := componentUser(context)
			context.Logger.Error().Str("user_id", userID).Msg("shutdown requested")
			context.Events.Publish(core.SystemEvent{Type: core.SystemEventShutdown, Requester: userID})
		}
		return err

	default:
		return core.ErrWrongContext
	}
}
