package core

import "context"

// Disabler is implemented by commands that can be switched off globally.
type Disabler interface {
	Disabled() bool
}

func IsDisabled(cmd Command) bool {
	d, ok := cmd.(Disabler)
	return ok && d.Disabled()
}

// WithDisabled blocks commands that are disabled globally or, for the
// invoking guild, by name or category. Bot owners are never blocked.
func WithDisabled() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if !ok || inv.level >= LevelOwner {
					return cmd.Run(ctx)
				}

				if IsDisabled(cmd) {
					return NewUserError("🔒 This command has been disabled.")
				}

				if inv.guildID != "" && inv.services != nil && inv.services.Storage != nil {
					disabled, err := inv.services.Storage.IsCommandDisabled(context.Background(), inv.guildID, cmd.Name(), cmd.Category())
					if err != nil {
						inv.services.Logger.Warn().Err(err).Str("command", cmd.Name()).Msg("disabled lookup failed")
					} else if disabled {
						return NewUserError("🔒 This command is disabled on this server.")
					}
				}

				return cmd.Run(ctx)
			},
		}
	}
}
