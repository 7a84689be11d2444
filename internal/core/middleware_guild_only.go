package core

func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if ok && inv.guildID == "" {
					return NewUserError("This command can only be used in a server.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithLevelCheck rejects callers below the command's level.
func WithLevelCheck() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if ok && inv.level < cmd.Level() {
					return NewUserError(":lock: You do not have permission to use this command.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}
