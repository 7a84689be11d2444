package storage

import "time"

type Guild struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TicketSystemEnabled   bool `gorm:"not null;default:false"`
	TicketSystemChannelID string
}

// DisabledCommand marks a command or category as switched off in a guild.
type DisabledCommand struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"uniqueIndex:idx_disabled_guild_name;not null"`
	Name      string `gorm:"uniqueIndex:idx_disabled_guild_name;not null"`
	CreatedAt time.Time
}

type CommandHistory struct {
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"index;not null"`
	GuildName   string
	ChannelID   string
	ChannelName string
	UserID      string
	Username    string
	Command     string `gorm:"not null"`
	Args        string
	CreatedAt   time.Time
}

type Quote struct {
	ID           uint   `gorm:"primaryKey"`
	GuildID      string `gorm:"index;not null"`
	UserID       string `gorm:"not null"`
	QuotedUserID string `gorm:"not null"`
	Content      string `gorm:"not null"`
	CreatedAt    time.Time
}

type Sladder struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"index;not null"`
	UserID    string `gorm:"not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time
}

type Ticket struct {
	ID        uint   `gorm:"primaryKey"`
	ShortID   string `gorm:"uniqueIndex;size:16;not null"`
	GuildID   string `gorm:"index;not null"`
	UserID    string `gorm:"not null"`
	ChannelID string
	Subject   string `gorm:"not null"`
	Category  string `gorm:"not null;default:other"`
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time

	ClosedAt     *time.Time
	ClosedBy     string
	ClosedReason string
}

func (t *Ticket) Closed() bool {
	return t.ClosedAt != nil
}
