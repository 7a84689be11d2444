package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

const presenceJob = "presence"

// presenceTexts are the "Watching ..." statuses shown in turn.
var presenceTexts = []func(core.Stats) string{
	func(core.Stats) string { return "yall struggle to code" },
	func(st core.Stats) string { return counted(st.Users, "user", "users") },
	func(st core.Stats) string { return counted(st.Guilds, "guild", "guilds") },
	func(st core.Stats) string { return counted(st.Channels, "channel", "channels") },
}

func counted(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, core.Plural(n, singular, plural))
}

func presenceText(index int, st core.Stats) string {
	return presenceTexts[index%len(presenceTexts)](st)
}

// startPresence rotates the bot status every STATUS_INTERVAL for as long as
// the session lives.
func (b *Bot) startPresence(s *discordgo.Session) error {
	_ = b.jobs.Stop(presenceJob)
	return b.jobs.Every(context.Background(), presenceJob, b.cfg.StatusInterval, func(context.Context) {
		b.rotatePresence(s)
	})
}

func (b *Bot) rotatePresence(s *discordgo.Session) {
	b.mu.Lock()
	index := b.presence
	b.presence = (b.presence + 1) % len(presenceTexts)
	b.mu.Unlock()

	text := presenceText(index, stateStats(s.State))
	if err := s.UpdateWatchStatus(0, text); err != nil {
		b.logger.Warn().Err(err).Msg("failed to update presence")
		return
	}
	b.logger.Debug().Str("status", text).Msg("presence updated")
}
