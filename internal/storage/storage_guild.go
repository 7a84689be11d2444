package storage

import (
	"context"

	"github.com/keshon/support-bot/pkg/util"
)

const guildSyncWorkers = 4

// EnsureGuild returns the guild row, creating it on first sight.
func (s *Storage) EnsureGuild(ctx context.Context, guildID string) (*Guild, error) {
	var g Guild
	err := s.db.WithContext(ctx).
		Where(Guild{GuildID: guildID}).
		FirstOrCreate(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Storage) GetGuild(ctx context.Context, guildID string) (*Guild, error) {
	var g Guild
	if err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&g).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

// SyncGuilds makes sure every listed guild has a row.
func (s *Storage) SyncGuilds(ctx context.Context, guildIDs []string) error {
	return util.Parallel(ctx, guildIDs, guildSyncWorkers, func(ctx context.Context, id string) error {
		_, err := s.EnsureGuild(ctx, id)
		return err
	})
}

func (s *Storage) SetTicketSystem(ctx context.Context, guildID string, enabled bool, channelID string) error {
	g, err := s.EnsureGuild(ctx, guildID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(g).Updates(map[string]any{
		"ticket_system_enabled":    enabled,
		"ticket_system_channel_id": channelID,
	}).Error
}
