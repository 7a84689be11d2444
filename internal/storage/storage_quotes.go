package storage

import (
	"context"

	"github.com/keshon/support-bot/pkg/util"
	"gorm.io/gorm"
)

// SearchThreshold is the highest fuzzy score a search result may have.
const SearchThreshold = 0.3

func (s *Storage) AddQuote(ctx context.Context, q *Quote) error {
	return s.db.WithContext(ctx).Create(q).Error
}

func (s *Storage) GetQuote(ctx context.Context, guildID string, id uint) (*Quote, error) {
	return getByID[Quote](s.db.WithContext(ctx), guildID, id)
}

func (s *Storage) RandomQuote(ctx context.Context, guildID string) (*Quote, error) {
	return random[Quote](s.db.WithContext(ctx), guildID)
}

func (s *Storage) ListQuotes(ctx context.Context, guildID string) ([]Quote, error) {
	return list[Quote](s.db.WithContext(ctx), guildID)
}

func (s *Storage) RemoveQuote(ctx context.Context, guildID string, id uint) error {
	return remove[Quote](s.db.WithContext(ctx), guildID, id)
}

func (s *Storage) SearchQuotes(ctx context.Context, guildID, query string) ([]Quote, error) {
	all, err := s.ListQuotes(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return search(all, query, func(q Quote) string { return q.Content }), nil
}

func (s *Storage) AddSladder(ctx context.Context, sl *Sladder) error {
	return s.db.WithContext(ctx).Create(sl).Error
}

func (s *Storage) GetSladder(ctx context.Context, guildID string, id uint) (*Sladder, error) {
	return getByID[Sladder](s.db.WithContext(ctx), guildID, id)
}

func (s *Storage) RandomSladder(ctx context.Context, guildID string) (*Sladder, error) {
	return random[Sladder](s.db.WithContext(ctx), guildID)
}

func (s *Storage) ListSladders(ctx context.Context, guildID string) ([]Sladder, error) {
	return list[Sladder](s.db.WithContext(ctx), guildID)
}

func (s *Storage) RemoveSladder(ctx context.Context, guildID string, id uint) error {
	return remove[Sladder](s.db.WithContext(ctx), guildID, id)
}

func (s *Storage) SearchSladders(ctx context.Context, guildID, query string) ([]Sladder, error) {
	all, err := s.ListSladders(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return search(all, query, func(sl Sladder) string { return sl.Content }), nil
}

func getByID[T any](db *gorm.DB, guildID string, id uint) (*T, error) {
	var rec T
	if err := db.Where("guild_id = ? AND id = ?", guildID, id).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func random[T any](db *gorm.DB, guildID string) (*T, error) {
	var rec T
	if err := db.Where("guild_id = ?", guildID).Order("RANDOM()").Take(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func list[T any](db *gorm.DB, guildID string) ([]T, error) {
	var recs []T
	err := db.Where("guild_id = ?", guildID).Order("id").Find(&recs).Error
	return recs, err
}

func remove[T any](db *gorm.DB, guildID string, id uint) error {
	var rec T
	res := db.Where("guild_id = ? AND id = ?", guildID, id).Delete(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func search[T any](items []T, query string, text func(T) string) []T {
	matches := util.FuzzySearch(items, query, SearchThreshold, func(item T) []string {
		return []string{text(item)}
	})
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Item)
	}
	return out
}
