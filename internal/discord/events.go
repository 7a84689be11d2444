package discord

import (
	"context"

	"github.com/keshon/support-bot/internal/core"
)

// handleSystemEvents blocks until the session should end and reports whether
// it should be reopened.
func (b *Bot) handleSystemEvents(ctx context.Context) (restart bool) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("shutdown signal received, closing discord session")
			return false
		case ev := <-b.svc.Events.Events():
			logger := b.logger.With().Str("event", ev.Type.String()).Str("requester", ev.Requester).Logger()
			switch ev.Type {
			case core.SystemEventRestart:
				logger.Warn().Bool("force", ev.Force).Msg("restart requested")
				return true
			case core.SystemEventShutdown:
				logger.Warn().Msg("shutdown requested")
				return false
			case core.SystemEventReload:
				logger.Info().Msg("data files reloaded")
				if s := b.session(); s != nil {
					b.rotatePresence(s)
				}
			default:
				logger.Warn().Msg("unknown system event")
			}
		}
	}
}
