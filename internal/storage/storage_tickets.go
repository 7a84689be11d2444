package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	shortIDLength       = 6
	defaultCloseReason  = "No reason provided"
	TicketStatusOpen    = "open"
	TicketStatusClosed  = "closed"
	TicketStatusAll     = "all"
	DefaultTicketStatus = TicketStatusOpen
)

var ErrTicketClosed = errors.New("ticket already closed")

type TicketFilter struct {
	Status   string
	Category string
	Assignee string
	UserID   string
}

// TicketUpdate holds the fields to change; empty fields are left alone.
type TicketUpdate struct {
	Subject  string
	Category string
	Assignee string
}

func NewShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shortIDLength]
}

// CreateTicket stores t, filling in a short id when it has none.
func (s *Storage) CreateTicket(ctx context.Context, t *Ticket) error {
	if t.ShortID == "" {
		t.ShortID = NewShortID()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// GetTicket finds a ticket by numeric id or short id.
func (s *Storage) GetTicket(ctx context.Context, guildID, ref string) (*Ticket, error) {
	return s.findTicket(s.db.WithContext(ctx), guildID, ref)
}

func (s *Storage) findTicket(db *gorm.DB, guildID, ref string) (*Ticket, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return nil, ErrNotFound
	}

	q := db.Where("guild_id = ?", guildID)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		q = q.Where("id = ? OR short_id = ?", id, ref)
	} else {
		q = q.Where("short_id = ?", ref)
	}

	var t Ticket
	if err := q.First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Storage) SetTicketChannel(ctx context.Context, t *Ticket, channelID string) error {
	t.ChannelID = channelID
	return s.db.WithContext(ctx).Model(t).Update("channel_id", channelID).Error
}

func (s *Storage) UpdateTicket(ctx context.Context, guildID, ref string, upd TicketUpdate) (*Ticket, error) {
	t, err := s.GetTicket(ctx, guildID, ref)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if upd.Subject != "" {
		changes["subject"] = upd.Subject
	}
	if upd.Category != "" {
		changes["category"] = upd.Category
	}
	if upd.Assignee != "" {
		changes["assignee"] = upd.Assignee
	}
	if len(changes) == 0 {
		return t, nil
	}

	if err := s.db.WithContext(ctx).Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.GetTicket(ctx, guildID, strconv.FormatUint(uint64(t.ID), 10))
}

func (s *Storage) CloseTicket(ctx context.Context, guildID, ref, closedBy, reason string) (*Ticket, error) {
	t, err := s.GetTicket(ctx, guildID, ref)
	if err != nil {
		return nil, err
	}
	if t.Closed() {
		return t, ErrTicketClosed
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultCloseReason
	}
	now := time.Now().UTC()

	err = s.db.WithContext(ctx).Model(t).Updates(map[string]any{
		"closed_at":     now,
		"closed_by":     closedBy,
		"closed_reason": reason,
	}).Error
	if err != nil {
		return nil, err
	}

	t.ClosedAt = &now
	t.ClosedBy = closedBy
	t.ClosedReason = reason
	return t, nil
}

func (s *Storage) ListTickets(ctx context.Context, guildID string, f TicketFilter) ([]Ticket, error) {
	q := s.db.WithContext(ctx).Where("guild_id = ?", guildID)

	switch f.Status {
	case TicketStatusAll:
	case TicketStatusClosed:
		q = q.Where("closed_at IS NOT NULL")
	default:
		q = q.Where("closed_at IS NULL")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Assignee != "" {
		q = q.Where("assignee = ?", f.Assignee)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}

	var tickets []Ticket
	err := q.Order("id").Find(&tickets).Error
	return tickets, err
}
