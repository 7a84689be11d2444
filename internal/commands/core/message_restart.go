package core

import (
	"github.com/keshon/support-bot/internal/core"
)

const (
	restartConfirmID = "restart_confirm"
	restartCancelID  = "restart_cancel"
)

var restartConfirmation = confirmation{
	question:  ":warning: Are you sure you would like to restart the bot? (Confirm within 5 seconds)",
	yes:       "Restarting...",
	no:        "Restart cancelled.",
	confirmID: restartConfirmID,
	cancelID:  restartCancelID,
}

type RestartCommand struct{}

func (c *RestartCommand) Name() string        { return "restart" }
func (c *RestartCommand) Description() string { return "Reconnects the bot to Discord" }
func (c *RestartCommand) Aliases() []string   { return []string{"reboot"} }
func (c *RestartCommand) Category() string    { return "🛠️ Maintenance" }
func (c *RestartCommand) Usage() string       { return "[--force]" }
func (c *RestartCommand) Level() int          { return core.LevelOwner }
func (c *RestartCommand) Hidden() bool        { return false }
func (c *RestartCommand) UserPermissions() []int64 {
	return nil
}
func (c *RestartCommand) BotPermissions() []int64 {
	return nil
}

func (c *RestartCommand) Run(ctx interface{}) error {
	switch context := ctx.(type) {
	case *core.MessageContext:
		session, msg := context.Session, context.Event.Message
		context.Logger.Warn().Str("user", msg.Author.Username).Msg("restart initiated")

		if force, _ := context.Args().String(true); force != "--force" {
			return restartConfirmation.ask(session, msg)
		}
		if err := core.Reply(session, msg, restartConfirmation.yes); err != nil {
			return err
		}
		c.publish(context.Services, msg.Author.ID, true)
		return nil

	case *core.ComponentContext:
		ok, err := restartConfirmation.resolve(context)
		if ok {
			userID, _ := componentUser(context)
			c.publish(context.Services, userID, false)
		}
		return err

	default:
		return core.ErrWrongContext
	}
}

func (c *RestartCommand) publish(svc *core.Services, requester string, force bool) {
	svc.Logger.Error().Str("user_id", requester).Msg("restart requested")
	if !svc.Events.Publish(core.SystemEvent{Type: core.SystemEventRestart, Requester: requester, Force: force}) {
		svc.Logger.Warn().Msg("system event queue full, restart dropped")
	}
}

func componentUser(ctx *core.ComponentContext) (string, string) {
	e := ctx.Event
	switch {
	case e.Member != nil && e.Member.User != nil:
		return e.Member.User.ID, e.Member.User.Username
	case e.User != nil:
		return e.User.ID, e.User.Username
	}
	return "", ""
}
