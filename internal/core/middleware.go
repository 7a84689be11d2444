package core

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

// UserError is shown to the invoking user as is instead of the generic
// failure reply.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

func NewUserError(msg string) error {
	return &UserError{Message: msg}
}

// ErrWrongContext is returned by commands invoked through a surface they do
// not serve.
var ErrWrongContext = errors.New("command does not support this context")

// invocation is what middlewares need to know about a call, whatever the
// surface.
type invocation struct {
	services  *Services
	guildID   string
	channelID string
	userID    string
	username  string
	level     int
	kind      string
	args      string
}

func invocationOf(ctx interface{}) (invocation, bool) {
	switch v := ctx.(type) {
	case *MessageContext:
		inv := invocation{
			services:  v.Services,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			level:     v.Level,
			kind:      "message",
			args:      v.Parsed.Body,
		}
		if v.Event.Author != nil {
			inv.userID, inv.username = v.Event.Author.ID, v.Event.Author.Username
		}
		return inv, true
	case *SlashContext:
		inv := invocation{
			services:  v.Services,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			level:     v.Level,
			kind:      "slash",
		}
		inv.userID, inv.username = interactionUser(v.Event)
		if v.Event.Type == discordgo.InteractionApplicationCommand {
			sub, _ := v.Options()
			inv.args = sub
		}
		return inv, true
	case *ComponentContext:
		inv := invocation{
			services:  v.Services,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			level:     v.Level,
			kind:      "component",
		}
		inv.userID, inv.username = interactionUser(v.Event)
		return inv, true
	default:
		return invocation{}, false
	}
}

func sessionOf(ctx interface{}) (*discordgo.Session, bool) {
	switch v := ctx.(type) {
	case *MessageContext:
		return v.Session, v.Session != nil
	case *SlashContext:
		return v.Session, v.Session != nil
	case *ComponentContext:
		return v.Session, v.Session != nil
	default:
		return nil, false
	}
}

func interactionUser(e *discordgo.InteractionCreate) (id, name string) {
	if u := InteractionUser(e); u != nil {
		return u.ID, u.Username
	}
	return "", ""
}

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (w *wrappedCommand) Autocomplete(ctx *SlashContext) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if ac, ok := w.Command.(Autocompleter); ok {
		return ac.Autocomplete(ctx)
	}
	return nil, nil
}

func (w *wrappedCommand) Disabled() bool {
	return IsDisabled(w.Command)
}

// ApplyMiddlewares wraps cmd so that the first middleware listed runs first.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	return cmd
}
