package community

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
)

type QuoteCommand struct{}

func (c *QuoteCommand) Name() string        { return "quote" }
func (c *QuoteCommand) Description() string { return "Quote commands for all your quote needs." }
func (c *QuoteCommand) Aliases() []string   { return nil }
func (c *QuoteCommand) Category() string    { return category }
func (c *QuoteCommand) Usage() string       { return "" }
func (c *QuoteCommand) Level() int          { return core.LevelEveryone }
func (c *QuoteCommand) Hidden() bool        { return false }
func (c *QuoteCommand) UserPermissions() []int64 {
	return nil
}
func (c *QuoteCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks}
}

func (c *QuoteCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "search",
				Description: "Search all the local quotes.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "query",
						Description: "The query to search for.",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List all the local quotes.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "get",
				Description: "Get a specific quote.",
				Options: []*discordgo.ApplicationCommandOption{
					idOptionDef("quote", "get"),
					publicOptionDef("quote"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "getrandom",
				Description: "Get a random quote.",
				Options: []*discordgo.ApplicationCommandOption{
					publicOptionDef("quote"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Create a new quote.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Quote quote",
						Required:    true,
						MaxLength:   1000,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "quoted_user",
						Description: "Who said it?",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a quote.",
				Options: []*discordgo.ApplicationCommandOption{
					idOptionDef("quote", "remove"),
				},
			},
		},
	}
}

func (c *QuoteCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}
	s, e := sctx.Session, sctx.Event
	bg := context.Background()

	sub, opts := sctx.Options()
	switch sub {
	case "search":
		query := opts["query"].StringValue()
		quotes, err := sctx.Storage.SearchQuotes(bg, e.GuildID, query)
		if err != nil {
			return fmt.Errorf("search quotes: %w", err)
		}
		if len(quotes) == 0 {
			return core.EditResponse(s, e, fmt.Sprintf("No quotes found for %q.", query))
		}
		embed := core.Embed(s)
		embed.Title = fmt.Sprintf("Quote search for %q", query)
		embed.Description = searchDescription(quoteEntries(quotes))
		return core.EditResponseEmbed(s, e, embed, nil)

	case "list":
		quotes, err := sctx.Storage.ListQuotes(bg, e.GuildID)
		if err != nil {
			return fmt.Errorf("list quotes: %w", err)
		}
		if len(quotes) == 0 {
			return core.EditResponse(s, e, "No quotes found.")
		}
		embed := core.Embed(s)
		embed.Title = "Quote list"
		embed.Description = listDescription(quoteEntries(quotes))
		return core.EditResponseEmbed(s, e, embed, nil)

	case "get":
		id, ok := idOption(opts)
		if !ok {
			return core.NewUserError("Give a quote id above zero.")
		}
		q, err := sctx.Storage.GetQuote(bg, e.GuildID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return core.EditResponse(s, e, fmt.Sprintf("No quote found for id `%d`.", id))
		}
		if err != nil {
			return fmt.Errorf("get quote: %w", err)
		}
		return show(sctx, c.embed(sctx, q), "quote", boolOption(opts, "public"))

	case "getrandom":
		q, err := sctx.Storage.RandomQuote(bg, e.GuildID)
		if errors.Is(err, storage.ErrNotFound) {
			return core.EditResponse(s, e, "No quotes found.")
		}
		if err != nil {
			return fmt.Errorf("random quote: %w", err)
		}
		return show(sctx, c.embed(sctx, q), "quote", boolOption(opts, "public"))

	case "add":
		q := &storage.Quote{
			GuildID:      e.GuildID,
			UserID:       core.InteractionUser(e).ID,
			QuotedUserID: opts["quoted_user"].UserValue(nil).ID,
			Content:      opts["content"].StringValue(),
		}
		if err := sctx.Storage.AddQuote(bg, q); err != nil {
			return fmt.Errorf("add quote: %w", err)
		}
		return core.EditResponse(s, e, fmt.Sprintf("Quote %d created.", q.ID))

	case "remove":
		if sctx.Level < core.LevelModerator {
			return core.EditResponse(s, e, "Ask the mods to remove it.")
		}
		id, ok := idOption(opts)
		if !ok {
			return core.NewUserError("Give a quote id above zero.")
		}
		err := sctx.Storage.RemoveQuote(bg, e.GuildID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return core.EditResponse(s, e, fmt.Sprintf("No quote found for id `%d`.", id))
		}
		if err != nil {
			return fmt.Errorf("remove quote: %w", err)
		}
		return core.EditResponse(s, e, fmt.Sprintf("Quote %d removed.", id))

	default:
		return core.EditResponse(s, e, "Unknown subcommand.")
	}
}

func (c *QuoteCommand) embed(ctx *core.SlashContext, q *storage.Quote) *discordgo.MessageEmbed {
	caller := core.InteractionUser(ctx.Event)
	embed := core.Embed(ctx.Session)
	embed.Title = "Quote `" + formatID(q.ID) + "`"
	embed.Description = quoteDescription(q.Content, q.QuotedUserID, q.CreatedAt)
	embed.Footer = footer(caller, calledBy(userString(caller), memberTag(ctx.Session, q.GuildID, q.UserID)))
	return embed
}

func quoteDescription(content, quotedUserID string, at time.Time) string {
	return content + "\n- <@" + quotedUserID + ">, " + core.Timestamp(at)
}

func quoteEntries(quotes []storage.Quote) []entry {
	out := make([]entry, len(quotes))
	for i, q := range quotes {
		out[i] = entry{ID: q.ID, Content: q.Content}
	}
	return out
}
