// Package discord connects the command registry to a Discord gateway
// session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/aoc"
	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/faq"
	"github.com/keshon/support-bot/internal/filter"
	"github.com/keshon/support-bot/internal/logging"
	"github.com/keshon/support-bot/internal/metrics"
	"github.com/keshon/support-bot/internal/parser"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/keshon/support-bot/pkg/jobmgr"
	"github.com/rs/zerolog"
)

// ErrNotConnected is returned by operations needing an open session.
var ErrNotConnected = errors.New("discord session is not connected")

type Options struct {
	Config   *config.Config
	Registry *core.Registry
	Storage  *storage.Storage
	Filter   *filter.Filter
	FAQ      *faq.Client
	AoC      *aoc.Client
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	// CacheDir holds the deployed command hashes. Empty means data/commands.
	CacheDir string
}

// Bot owns the gateway session and dispatches its events to commands.
type Bot struct {
	cfg      *config.Config
	reg      *core.Registry
	svc      *core.Services
	parser   *parser.Parser
	jobs     *jobmgr.Manager
	logger   zerolog.Logger
	cacheDir string

	mu       sync.RWMutex
	dg       *discordgo.Session
	started  time.Time
	owners   map[string]bool
	presence int
}

func New(opts Options) *Bot {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}

	b := &Bot{
		cfg:      opts.Config,
		reg:      opts.Registry,
		parser:   parser.New(opts.Config.ParserOptions()),
		jobs:     jobmgr.NewManager(opts.Logger.With().Str("component", "jobs").Logger()),
		logger:   opts.Logger,
		cacheDir: cacheDir,
		owners:   map[string]bool{},
	}
	b.svc = &core.Services{
		Config:   opts.Config,
		Storage:  opts.Storage,
		Filter:   opts.Filter,
		FAQ:      opts.FAQ,
		AoC:      opts.AoC,
		Metrics:  opts.Metrics,
		Registry: opts.Registry,
		Events:   core.NewEventBus(16),
		Perms:    b,
		Control:  b,
		Logger:   opts.Logger,
	}
	return b
}

// Services are the dependencies handed to every command.
func (b *Bot) Services() *core.Services {
	return b.svc
}

// Run connects to Discord and serves events until ctx is done or a shutdown
// is requested. A restart request reconnects with a fresh session.
func (b *Bot) Run(ctx context.Context) error {
	for {
		restart, err := b.runSession(ctx)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
		b.logger.Warn().Msg("restarting discord session")
	}
}

func (b *Bot) runSession(ctx context.Context) (restart bool, err error) {
	dg, err := b.newSession()
	if err != nil {
		return false, err
	}
	if err := dg.Open(); err != nil {
		return false, fmt.Errorf("open discord session: %w", err)
	}

	b.mu.Lock()
	b.dg = dg
	b.started = time.Now()
	b.mu.Unlock()

	defer func() {
		b.jobs.StopAll()
		b.mu.Lock()
		b.dg = nil
		b.mu.Unlock()
		if err := dg.Close(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to close discord session")
		}
	}()

	return b.handleSystemEvents(ctx), nil
}

func (b *Bot) newSession() (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.StateEnabled = true
	dg.State.MaxMessageCount = 100
	discordgo.Logger = logging.DiscordgoLogger(b.logger)

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageUpdate)
	dg.AddHandler(b.onInteractionCreate)
	return dg, nil
}

func (b *Bot) session() *discordgo.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dg
}

// BotID is the user id of the connected bot, empty while disconnected.
func (b *Bot) BotID() string {
	s := b.session()
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

// Stats summarises the session state.
func (b *Bot) Stats() core.Stats {
	s := b.session()
	if s == nil {
		return core.Stats{}
	}
	b.mu.RLock()
	started := b.started
	b.mu.RUnlock()

	st := stateStats(s.State)
	st.Uptime = time.Since(started)
	st.Heartbeat = s.HeartbeatLatency()
	return st
}

// UserChannelPermissions resolves permissions from the session state.
func (b *Bot) UserChannelPermissions(userID, channelID string) (int64, error) {
	s := b.session()
	if s == nil {
		return 0, ErrNotConnected
	}
	return s.State.UserChannelPermissions(userID, channelID)
}

func stateStats(state *discordgo.State) core.Stats {
	var st core.Stats
	if state == nil {
		return st
	}
	state.RLock()
	defer state.RUnlock()

	st.Guilds = len(state.Guilds)
	for _, g := range state.Guilds {
		st.Users += g.MemberCount
		st.Channels += len(g.Channels)
	}
	return st
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.loadOwners(s)

	ids := make([]string, len(r.Guilds))
	for i, g := range r.Guilds {
		ids[i] = g.ID
	}
	if b.svc.Storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := b.svc.Storage.SyncGuilds(ctx, ids); err != nil {
			b.logger.Error().Err(err).Msg("failed to sync guilds")
		}
		cancel()
	}
	b.svc.Metrics.SetGuilds(len(r.Guilds))

	if err := b.startPresence(s); err != nil {
		b.logger.Warn().Err(err).Msg("presence rotation not started")
	}

	b.logger.Info().
		Str("user", r.User.String()).
		Int("guilds", len(r.Guilds)).
		Int("commands", len(b.reg.All())).
		Int("slash_commands", len(b.reg.SlashCommands())).
		Int("admins", b.adminCount()).
		Msg("discord bot is ready")
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.logger.Info().Str("guild_id", g.ID).Str("guild", g.Name).Msg("guild available")
	b.svc.Metrics.SetGuilds(len(s.State.Guilds))

	if b.svc.Storage == nil {
		return
	}
	if _, err := b.svc.Storage.EnsureGuild(context.Background(), g.ID); err != nil {
		b.logger.Error().Err(err).Str("guild_id", g.ID).Msg("failed to store guild")
	}
}
