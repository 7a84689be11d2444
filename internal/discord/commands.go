package discord

import (
	"context"
	"fmt"
	"maps"

	"github.com/bwmarrin/discordgo"
)

// DeployCommands overwrites the slash commands of guildID, or the global set
// when guildID is empty, with the registry definitions. Nothing is sent when
// the definitions match the hashes of the last deploy and Discord still
// holds the same commands. It returns the number of commands deployed.
func (b *Bot) DeployCommands(ctx context.Context, guildID string) (int, error) {
	s := b.session()
	if s == nil {
		return 0, ErrNotConnected
	}
	appID, err := b.appID(ctx, s)
	if err != nil {
		return 0, err
	}
	logger := b.logger.With().Str("guild_id", guildID).Logger()

	defs := b.reg.SlashDefinitions()
	hashes := hashCommands(defs)

	cached, err := loadCommandHashes(b.cacheDir, guildID)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring command hash cache")
	}
	if maps.Equal(cached, hashes) {
		remote, err := s.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
		if err == nil && sameNames(remote, hashes) {
			logger.Info().Int("commands", len(defs)).Msg("slash commands unchanged")
			return len(defs), nil
		}
	}

	deployed, err := s.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("overwrite commands: %w", err)
	}
	if err := saveCommandHashes(b.cacheDir, guildID, hashes); err != nil {
		logger.Warn().Err(err).Msg("failed to save command hashes")
	}
	logger.Info().Int("commands", len(deployed)).Msg("slash commands deployed")
	return len(deployed), nil
}

// ResetCommands removes every slash command of guildID, or the global ones.
func (b *Bot) ResetCommands(ctx context.Context, guildID string) error {
	s := b.session()
	if s == nil {
		return ErrNotConnected
	}
	appID, err := b.appID(ctx, s)
	if err != nil {
		return err
	}

	if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("reset commands: %w", err)
	}
	if err := clearCommandHashes(b.cacheDir, guildID); err != nil {
		b.logger.Warn().Err(err).Str("guild_id", guildID).Msg("failed to clear command hashes")
	}
	b.logger.Info().Str("guild_id", guildID).Msg("slash commands removed")
	return nil
}

// appID returns the application id, which for bots is the bot user id.
func (b *Bot) appID(ctx context.Context, s *discordgo.Session) (string, error) {
	if s.State != nil && s.State.User != nil && s.State.User.ID != "" {
		return s.State.User.ID, nil
	}
	u, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetch bot user: %w", err)
	}
	return u.ID, nil
}

func sameNames(remote []*discordgo.ApplicationCommand, hashes map[string]string) bool {
	if len(remote) != len(hashes) {
		return false
	}
	for _, c := range remote {
		if _, ok := hashes[c.Name]; !ok {
			return false
		}
	}
	return true
}

// DeployOffline deploys, or with reset removes, the slash commands over the
// REST API alone, without opening a gateway connection.
func (b *Bot) DeployOffline(ctx context.Context, guildID string, reset bool) (int, error) {
	dg, err := b.newSession()
	if err != nil {
		return 0, err
	}
	b.mu.Lock()
	b.dg = dg
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.dg = nil
		b.mu.Unlock()
	}()

	if reset {
		return 0, b.ResetCommands(ctx, guildID)
	}
	return b.DeployCommands(ctx, guildID)
}
