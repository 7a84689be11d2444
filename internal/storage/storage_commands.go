package storage

import (
	"context"
	"slices"

	"gorm.io/gorm/clause"
)

const commandHistoryLimit int = 20

func (s *Storage) DisableCommand(ctx context.Context, guildID, name string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&DisabledCommand{GuildID: guildID, Name: name}).Error
}

func (s *Storage) EnableCommand(ctx context.Context, guildID, name string) error {
	return s.db.WithContext(ctx).
		Where("guild_id = ? AND name = ?", guildID, name).
		Delete(&DisabledCommand{}).Error
}

// IsCommandDisabled reports whether any of names is disabled in the guild.
// Callers pass the command name together with its category.
func (s *Storage) IsCommandDisabled(ctx context.Context, guildID string, names ...string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&DisabledCommand{}).
		Where("guild_id = ? AND name IN ?", guildID, names).
		Count(&n).Error
	return n > 0, err
}

func (s *Storage) DisabledCommands(ctx context.Context, guildID string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&DisabledCommand{}).
		Where("guild_id = ?", guildID).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

func (s *Storage) AppendCommandHistory(ctx context.Context, rec *CommandHistory) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// CommandHistory returns the latest commands run in the guild, oldest first.
func (s *Storage) CommandHistory(ctx context.Context, guildID string) ([]CommandHistory, error) {
	var recs []CommandHistory
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("id DESC").
		Limit(commandHistoryLimit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(recs)
	return recs, nil
}
