package core

import (
	"context"
	"errors"
	"time"

	"github.com/keshon/support-bot/internal/storage"
)

// WithCommandLogger records every invocation in the guild command history
// and in the command metrics, then logs failures.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if !ok || inv.services == nil {
					return cmd.Run(ctx)
				}

				start := time.Now()
				err := cmd.Run(ctx)
				elapsed := time.Since(start)

				status := "ok"
				var userErr *UserError
				switch {
				case errors.As(err, &userErr):
					status = "rejected"
				case err != nil:
					status = "error"
				}

				svc := inv.services
				svc.Metrics.ObserveCommand(cmd.Name(), inv.kind, status, elapsed)

				logger := svc.Logger.With().
					Str("command", cmd.Name()).
					Str("kind", inv.kind).
					Str("user", inv.username).
					Str("user_id", inv.userID).
					Str("guild_id", inv.guildID).
					Dur("elapsed", elapsed).
					Logger()
				switch status {
				case "error":
					logger.Error().Err(err).Msg("command failed")
				case "rejected":
					logger.Debug().Str("reason", userErr.Message).Msg("command rejected")
				default:
					logger.Trace().Msg("command completed")
				}

				if svc.Storage != nil && inv.guildID != "" && status != "rejected" {
					rec := &storage.CommandHistory{
						GuildID:   inv.guildID,
						ChannelID: inv.channelID,
						UserID:    inv.userID,
						Username:  inv.username,
						Command:   cmd.Name(),
						Args:      inv.args,
					}
					if s, ok := sessionOf(ctx); ok && s.State != nil {
						if g, e := s.State.Guild(inv.guildID); e == nil {
							rec.GuildName = g.Name
						}
						if c, e := s.State.Channel(inv.channelID); e == nil {
							rec.ChannelName = c.Name
						}
					}
					if e := svc.Storage.AppendCommandHistory(context.Background(), rec); e != nil {
						logger.Warn().Err(e).Msg("failed to record command history")
					}
				}

				return err
			},
		}
	}
}
