package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
)

type SladderCommand struct{}

func (c *SladderCommand) Name() string        { return "sladder" }
func (c *SladderCommand) Description() string { return "Sladder commands for all your sladder needs." }
func (c *SladderCommand) Aliases() []string   { return nil }
func (c *SladderCommand) Category() string    { return category }
func (c *SladderCommand) Usage() string       { return "" }
func (c *SladderCommand) Level() int          { return core.LevelEveryone }
func (c *SladderCommand) Hidden() bool        { return false }
func (c *SladderCommand) UserPermissions() []int64 {
	return nil
}
func (c *SladderCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionEmbedLinks}
}

func (c *SladderCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "search",
				Description: "Search all the local sladders.",
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
				Description: "List all the local sladders.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "get",
				Description: "Get a specific sladder.",
				Options: []*discordgo.ApplicationCommandOption{
					idOptionDef("sladder", "get"),
					publicOptionDef("sladder"),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Create a new sladder.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "content",
						Description: "Sladder sladder",
						Required:    true,
						MaxLength:   1000,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a sladder.",
				Options: []*discordgo.ApplicationCommandOption{
					idOptionDef("sladder", "remove"),
				},
			},
		},
	}
}

func (c *SladderCommand) Run(ctx interface{}) error {
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
		sladders, err := sctx.Storage.SearchSladders(bg, e.GuildID, query)
		if err != nil {
			return fmt.Errorf("search sladders: %w", err)
		}
		if len(sladders) == 0 {
			return core.EditResponse(s, e, fmt.Sprintf("No sladders found for %q.", query))
		}
		embed := core.Embed(s)
		embed.Title = fmt.Sprintf("Sladder search for %q", query)
		embed.Description = searchDescription(sladderEntries(sladders))
		return core.EditResponseEmbed(s, e, embed, nil)

	case "list":
		sladders, err := sctx.Storage.ListSladders(bg, e.GuildID)
		if err != nil {
			return fmt.Errorf("list sladders: %w", err)
		}
		if len(sladders) == 0 {
			return core.EditResponse(s, e, "No sladders found.")
		}
		embed := core.Embed(s)
		embed.Title = "Sladder list"
		embed.Description = listDescription(sladderEntries(sladders))
		return core.EditResponseEmbed(s, e, embed, nil)

	case "get":
		id, ok := idOption(opts)
		if !ok {
			return core.NewUserError("Give a sladder id above zero.")
		}
		sl, err := sctx.Storage.GetSladder(bg, e.GuildID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return core.EditResponse(s, e, fmt.Sprintf("No sladder found for id `%d`.", id))
		}
		if err != nil {
			return fmt.Errorf("get sladder: %w", err)
		}

		caller := core.InteractionUser(e)
		embed := core.Embed(s)
		embed.Title = "Sladder `" + formatID(sl.ID) + "`"
		embed.Description = sl.Content
		embed.Footer = footer(caller, calledBy(userString(caller), ""))
		return show(sctx, embed, "sladder", boolOption(opts, "public"))

	case "add":
		sl := &storage.Sladder{
			GuildID: e.GuildID,
			UserID:  core.InteractionUser(e).ID,
			Content: opts["content"].StringValue(),
		}
		if err := sctx.Storage.AddSladder(bg, sl); err != nil {
			return fmt.Errorf("add sladder: %w", err)
		}
		return core.EditResponse(s, e, fmt.Sprintf("Sladder %d created.", sl.ID))

	case "remove":
		if sctx.Level < core.LevelModerator {
			return core.EditResponse(s, e, "Ask the mods to remove it.")
		}
		id, ok := idOption(opts)
		if !ok {
			return core.NewUserError("Give a sladder id above zero.")
		}
		err := sctx.Storage.RemoveSladder(bg, e.GuildID, id)
		if errors.Is(err, storage.ErrNotFound) {
			return core.EditResponse(s, e, fmt.Sprintf("No sladder found for id `%d`.", id))
		}
		if err != nil {
			return fmt.Errorf("remove sladder: %w", err)
		}
		return core.EditResponse(s, e, fmt.Sprintf("Sladder %d removed.", id))

	default:
		return core.EditResponse(s, e, "Unknown subcommand.")
	}
}

func sladderEntries(sladders []storage.Sladder) []entry {
	out := make([]entry, len(sladders))
	for i, sl := range sladders {
		out[i] = entry{ID: sl.ID, Content: sl.Content}
	}
	return out
}
