package core

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/aoc"
	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/faq"
	"github.com/keshon/support-bot/internal/filter"
	"github.com/keshon/support-bot/internal/metrics"
	"github.com/keshon/support-bot/internal/parser"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/rs/zerolog"
)

// Permission levels, lowest first.
const (
	LevelEveryone  = 0
	LevelModerator = 1
	LevelAdmin     = 2
	LevelOwner     = 3
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Category() string
	// Usage describes the arguments, e.g. "[command]".
	Usage() string
	Level() int
	Hidden() bool
	UserPermissions() []int64
	BotPermissions() []int64
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands exposed as application commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Autocompleter is implemented by slash commands with autocompleted options.
type Autocompleter interface {
	Autocomplete(ctx *SlashContext) ([]*discordgo.ApplicationCommandOptionChoice, error)
}

// PermissionSource resolves channel permissions. *discordgo.State satisfies it.
type PermissionSource interface {
	UserChannelPermissions(userID, channelID string) (int64, error)
}

// Controller is the part of the running bot that commands may drive.
type Controller interface {
	BotID() string
	Stats() Stats
	DeployCommands(ctx context.Context, guildID string) (int, error)
	ResetCommands(ctx context.Context, guildID string) error
}

type Stats struct {
	Guilds    int           `json:"guilds"`
	Users     int           `json:"users"`
	Channels  int           `json:"channels"`
	Uptime    time.Duration `json:"-"`
	Heartbeat time.Duration `json:"-"`
}

// Services are shared by every invocation.
type Services struct {
	Config   *config.Config
	Storage  *storage.Storage
	Filter   *filter.Filter
	FAQ      *faq.Client
	AoC      *aoc.Client
	Metrics  *metrics.Metrics
	Registry *Registry
	Events   *EventBus
	Perms    PermissionSource
	Control  Controller
	Logger   zerolog.Logger
}

// MessageContext is handed to text commands.
type MessageContext struct {
	*Services
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Parsed  parser.Result
	// Level of the author, resolved by the dispatcher.
	Level int
}

// Args is the reader over the parsed arguments.
func (c *MessageContext) Args() *parser.Reader {
	return c.Parsed.Reader
}

type SlashContext struct {
	*Services
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Level   int
}

// Options returns the options of the invoked subcommand, or the top level
// options when there is none.
func (c *SlashContext) Options() (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	return SubcommandOptions(c.Event.ApplicationCommandData().Options)
}

type ComponentContext struct {
	*Services
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Level   int
}

// Focused returns the option being autocompleted.
func Focused(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o.Focused {
			return o, true
		}
	}
	return nil, false
}

// SubcommandOptions flattens opts into the subcommand name and its options
// keyed by name.
func SubcommandOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	sub := ""
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		out[o.Name] = o
	}
	return sub, out
}
