package support

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/faq"
)

const (
	faqSelectID = "faq_select"
	faqTimeout  = 15 * time.Second
)

type FAQCommand struct{}

func (c *FAQCommand) Name() string        { return "faq" }
func (c *FAQCommand) Description() string { return "Get a list of frequently asked questions." }
func (c *FAQCommand) Aliases() []string   { return nil }
func (c *FAQCommand) Category() string    { return category }
func (c *FAQCommand) Usage() string       { return "" }
func (c *FAQCommand) Level() int          { return core.LevelEveryone }
func (c *FAQCommand) Hidden() bool        { return false }
func (c *FAQCommand) UserPermissions() []int64 {
	return nil
}
func (c *FAQCommand) BotPermissions() []int64 {
	return nil
}

func (c *FAQCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Get a list of frequently asked questions.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "get",
				Description: "Get a specific question.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "question",
						Description:  "The question to get.",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "search",
				Description: "Search for a question.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "query",
						Description: "The query to search for.",
						Required:    true,
					},
				},
			},
		},
	}
}

func (c *FAQCommand) Autocomplete(ctx *core.SlashContext) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if ctx.FAQ == nil {
		return nil, nil
	}
	_, opts := ctx.Options()
	focused, ok := core.Focused(opts)
	if !ok {
		return nil, nil
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), faqTimeout)
	defer cancel()
	entries, err := ctx.FAQ.Entries(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("faq entries: %w", err)
	}
	return questionChoices(entries, focused.StringValue()), nil
}

func (c *FAQCommand) Run(ctx interface{}) error {
	switch v := ctx.(type) {
	case *core.SlashContext:
		return c.runSlash(v)
	case *core.ComponentContext:
		return c.runSelect(v)
	default:
		return core.ErrWrongContext
	}
}

func (c *FAQCommand) runSlash(sctx *core.SlashContext) error {
	s, e := sctx.Session, sctx.Event
	if sctx.FAQ == nil {
		return core.EditResponse(s, e, "The FAQ is not available.")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), faqTimeout)
	defer cancel()

	sub, opts := sctx.Options()
	switch sub {
	case "list":
		entries, err := sctx.FAQ.Entries(reqCtx)
		if err != nil {
			return fmt.Errorf("faq list: %w", err)
		}
		embed := core.Embed(s)
		embed.Title = "FAQ"
		embed.Description = questionList(entries)

		options := make([]discordgo.SelectMenuOption, 0, len(entries))
		for i, entry := range entries {
			options = append(options, selectOption(i, i, entry.Question))
		}
		return core.EditResponseEmbed(s, e, embed, selectMenu(options))

	case "get":
		index, err := strconv.Atoi(opts["question"].StringValue())
		if err != nil {
			return core.EditResponse(s, e, "No question found.")
		}
		entry, err := sctx.FAQ.Get(reqCtx, index)
		if errors.Is(err, faq.ErrNoEntry) {
			return core.EditResponse(s, e, "No question found.")
		}
		if err != nil {
			return fmt.Errorf("faq get: %w", err)
		}
		embed := core.Embed(s)
		embed.Title = "FAQ"
		embed.Description = core.Truncate(sctx.FAQ.Render(entry), maxDescription)
		return core.EditResponseEmbed(s, e, embed, nil)

	case "search":
		query := opts["query"].StringValue()
		results, err := sctx.FAQ.Search(reqCtx, query)
		if errors.Is(err, faq.ErrNoResults) {
			return core.EditResponse(s, e, "No results found.")
		}
		if err != nil {
			return fmt.Errorf("faq search: %w", err)
		}
		embed := core.Embed(s)
		embed.Title = "FAQ Search"
		embed.Description = searchSummary(results, query)

		options := make([]discordgo.SelectMenuOption, 0, len(results))
		for i, r := range results {
			options = append(options, selectOption(i, r.Index, r.Entry.Question))
		}
		return core.EditResponseEmbed(s, e, embed, selectMenu(options))

	default:
		return core.EditResponse(s, e, "Not implemented or doesn't exist.")
	}
}

// runSelect shows the answer picked from a list or search menu in place of
// the listing. The menu stays so another question can be picked.
func (c *FAQCommand) runSelect(cctx *core.ComponentContext) error {
	s, e := cctx.Session, cctx.Event
	if err := core.RespondDeferredUpdate(s, e); err != nil {
		return err
	}
	if cctx.FAQ == nil {
		return nil
	}

	values := e.MessageComponentData().Values
	if len(values) == 0 {
		return nil
	}
	index, err := strconv.Atoi(values[0])
	if err != nil {
		return fmt.Errorf("faq select value %q: %w", values[0], err)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), faqTimeout)
	defer cancel()
	entry, err := cctx.FAQ.Get(reqCtx, index)
	if err != nil {
		return fmt.Errorf("faq select: %w", err)
	}

	embed := core.Embed(s)
	embed.Title = "FAQ"
	embed.Description = core.Truncate(cctx.FAQ.Render(entry), maxDescription)
	return core.EditResponseEmbed(s, e, embed, nil)
}

func questionList(entries []faq.Entry) string {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = fmt.Sprintf("%d. %s", i+1, entry.Question)
	}
	return core.JoinLimited(lines, maxDescription)
}

func searchSummary(results []faq.Result, query string) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("%d. %s", i+1, r.Entry.Question)
	}
	header := fmt.Sprintf("**%d** %s found for **%q**\n\n", len(results), core.Plural(len(results), "result", "results"), query)
	return header + core.JoinLimited(lines, maxDescription-len([]rune(header)))
}

// selectOption labels the option with its position in the listing and
// carries the entry index as value.
func selectOption(position, index int, question string) discordgo.SelectMenuOption {
	return discordgo.SelectMenuOption{
		Label: core.Truncate(fmt.Sprintf("%d. %s", position+1, question), maxChoiceLength),
		Value: strconv.Itoa(index),
	}
}

// selectMenu holds at most 25 options; an empty slice yields no components.
func selectMenu(options []discordgo.SelectMenuOption) []discordgo.MessageComponent {
	if len(options) == 0 {
		return []discordgo.MessageComponent{}
	}
	if len(options) > maxChoices {
		options = options[:maxChoices]
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    faqSelectID,
				Placeholder: "Select a question",
				Options:     options,
			},
		}},
	}
}

// questionChoices offers the questions containing query, valued by index.
func questionChoices(entries []faq.Entry, query string) []*discordgo.ApplicationCommandOptionChoice {
	query = strings.ToLower(strings.TrimSpace(query))
	var choices []*discordgo.ApplicationCommandOptionChoice
	for i, entry := range entries {
		if len(choices) == maxChoices {
			break
		}
		if query != "" && !strings.Contains(strings.ToLower(entry.Question), query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  core.Truncate(entry.Question, maxChoiceLength),
			Value: strconv.Itoa(i),
		})
	}
	return choices
}
