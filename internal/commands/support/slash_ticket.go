package support

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
)

const ticketCategoryChannel = "tickets"

var ticketCategories = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "HTML", Value: "html"},
	{Name: "Styling (CSS)", Value: "css"},
	{Name: "JavaScript", Value: "js"},
	{Name: "Design", Value: "design"},
	{Name: "Other/unspecified", Value: "other"},
}

type TicketCommand struct{}

func (c *TicketCommand) Name() string        { return "ticket" }
func (c *TicketCommand) Description() string { return "Create, modify, or close a support ticket." }
func (c *TicketCommand) Aliases() []string   { return nil }
func (c *TicketCommand) Category() string    { return category }
func (c *TicketCommand) Usage() string       { return "" }
func (c *TicketCommand) Level() int          { return core.LevelEveryone }
func (c *TicketCommand) Hidden() bool        { return false }
func (c *TicketCommand) UserPermissions() []int64 {
	return nil
}
func (c *TicketCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionManageChannels}
}

func (c *TicketCommand) SlashDefinition() *discordgo.ApplicationCommand {
	ticketID := func(verb string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "The ID of the ticket to " + verb,
			Required:     true,
			Autocomplete: true,
		}
	}
	categoryOption := func(desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "category",
			Description: desc,
			Required:    required,
			Choices:     ticketCategories,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a support ticket",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "subject",
						Description: "The subject of the ticket",
						Required:    true,
						MaxLength:   200,
					},
					categoryOption("The category of the ticket", true),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit",
				Description: "Modify a support ticket",
				Options: []*discordgo.ApplicationCommandOption{
					ticketID("modify"),
					categoryOption("Modify the category of a support ticket", false),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "subject",
						Description: "Modify the subject of a support ticket",
						MaxLength:   200,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "assignee",
						Description: "Assign the ticket to someone",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "close",
				Description: "Close a support ticket",
				Options: []*discordgo.ApplicationCommandOption{
					ticketID("close"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "reason",
						Description: "The reason for closing the ticket",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List tickets",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "status",
						Description: "Filter by status",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Open", Value: storage.TicketStatusOpen},
							{Name: "Closed", Value: storage.TicketStatusClosed},
							{Name: "All", Value: storage.TicketStatusAll},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "assignee",
						Description: "Filter by assignee",
					},
					categoryOption("Filter by category", false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setup",
				Description: "Setup ticket stuff.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "enabled",
						Description: "Enable or disable ticket support",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "View a ticket",
				Options: []*discordgo.ApplicationCommandOption{
					ticketID("view"),
				},
			},
		},
	}
}

func (c *TicketCommand) Autocomplete(ctx *core.SlashContext) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	sub, opts := ctx.Options()
	focused, ok := core.Focused(opts)
	if !ok || focused.Name != "id" || ctx.Storage == nil {
		return nil, nil
	}

	filter := storage.TicketFilter{Status: storage.TicketStatusOpen}
	if sub == "view" {
		filter.Status = storage.TicketStatusAll
	}
	tickets, err := ctx.Storage.ListTickets(context.Background(), ctx.Event.GuildID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return ticketChoices(tickets, focused.StringValue()), nil
}

func (c *TicketCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashContext)
	if !ok {
		return core.ErrWrongContext
	}
	s, e := sctx.Session, sctx.Event
	bg := context.Background()

	guild, err := sctx.Storage.EnsureGuild(bg, e.GuildID)
	if err != nil {
		return fmt.Errorf("ensure guild: %w", err)
	}

	sub, opts := sctx.Options()
	if !guild.TicketSystemEnabled && sub != "setup" {
		return core.EditResponse(s, e, "Ticket support is not enabled on this server. Enable it with the /ticket setup command.")
	}

	switch sub {
	case "create":
		return c.create(sctx, guild, opts)
	case "edit":
		return c.edit(sctx, opts)
	case "close":
		return c.close(sctx, opts)
	case "list":
		return c.list(sctx, opts)
	case "setup":
		return c.setup(sctx, guild, opts)
	case "view":
		return c.view(sctx, opts)
	default:
		return core.EditResponse(s, e, "No such subcommand: "+sub)
	}
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

func (c *TicketCommand) create(sctx *core.SlashContext, guild *storage.Guild, opts optionMap) error {
	s, e := sctx.Session, sctx.Event
	user := core.InteractionUser(e)

	ticket := &storage.Ticket{
		ShortID:  storage.NewShortID(),
		GuildID:  e.GuildID,
		UserID:   user.ID,
		Subject:  opts["subject"].StringValue(),
		Category: opts["category"].StringValue(),
	}

	channel, err := s.GuildChannelCreateComplex(e.GuildID, discordgo.GuildChannelCreateData{
		Name:     ticketChannelName(ticket.ShortID, false),
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    ticketTopic(ticket),
		ParentID: guild.TicketSystemChannelID,
	})
	if err != nil {
		return fmt.Errorf("create ticket channel: %w", err)
	}
	ticket.ChannelID = channel.ID

	if err := sctx.Storage.CreateTicket(context.Background(), ticket); err != nil {
		if _, derr := s.ChannelDelete(channel.ID); derr != nil {
			sctx.Logger.Warn().Err(derr).Str("channel_id", channel.ID).Msg("failed to remove orphaned ticket channel")
		}
		return fmt.Errorf("create ticket: %w", err)
	}

	return core.EditResponse(s, e, fmt.Sprintf("Created ticket #%d in <#%s>", ticket.ID, channel.ID))
}

func (c *TicketCommand) edit(sctx *core.SlashContext, opts optionMap) error {
	s, e := sctx.Session, sctx.Event
	bg := context.Background()
	ref := opts["id"].StringValue()

	ticket, err := sctx.Storage.GetTicket(bg, e.GuildID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return core.EditResponse(s, e, "No ticket with ID "+ref)
	}
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}
	if !canManage(sctx.Level, core.InteractionUser(e).ID, ticket) {
		return core.NewUserError("Only the ticket owner or a moderator can edit this ticket.")
	}

	upd := storage.TicketUpdate{}
	if o, ok := opts["subject"]; ok {
		upd.Subject = o.StringValue()
	}
	if o, ok := opts["category"]; ok {
		upd.Category = o.StringValue()
	}
	if o, ok := opts["assignee"]; ok {
		upd.Assignee = o.UserValue(nil).ID
	}

	ticket, err = sctx.Storage.UpdateTicket(bg, e.GuildID, strconv.FormatUint(uint64(ticket.ID), 10), upd)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if upd.Subject != "" || upd.Category != "" {
		if _, err := s.ChannelEdit(ticket.ChannelID, &discordgo.ChannelEdit{Topic: ticketTopic(ticket)}); err != nil {
			sctx.Logger.Warn().Err(err).Str("channel_id", ticket.ChannelID).Msg("failed to update ticket topic")
		}
	}

	return core.EditResponse(s, e, fmt.Sprintf("Edited ticket #%d", ticket.ID))
}

func (c *TicketCommand) close(sctx *core.SlashContext, opts optionMap) error {
	s, e := sctx.Session, sctx.Event
	bg := context.Background()
	ref := opts["id"].StringValue()
	user := core.InteractionUser(e)

	ticket, err := sctx.Storage.GetTicket(bg, e.GuildID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return core.EditResponse(s, e, "No ticket with ID "+ref)
	}
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}
	if !canManage(sctx.Level, user.ID, ticket) {
		return core.NewUserError("Only the ticket owner or a moderator can close this ticket.")
	}

	reason := ""
	if o, ok := opts["reason"]; ok {
		reason = o.StringValue()
	}
	ticket, err = sctx.Storage.CloseTicket(bg, e.GuildID, strconv.FormatUint(uint64(ticket.ID), 10), user.ID, reason)
	if errors.Is(err, storage.ErrTicketClosed) {
		return core.EditResponse(s, e, fmt.Sprintf("Ticket #%d is already closed.", ticket.ID))
	}
	if err != nil {
		return fmt.Errorf("close ticket: %w", err)
	}

	if ticket.ChannelID != "" {
		if _, err := s.ChannelEdit(ticket.ChannelID, &discordgo.ChannelEdit{Name: ticketChannelName(ticket.ShortID, true)}); err != nil {
			sctx.Logger.Warn().Err(err).Str("channel_id", ticket.ChannelID).Msg("failed to rename ticket channel")
		}
	}

	return core.EditResponse(s, e, fmt.Sprintf("Closed ticket #%d", ticket.ID))
}

func (c *TicketCommand) list(sctx *core.SlashContext, opts optionMap) error {
	s, e := sctx.Session, sctx.Event

	filter := storage.TicketFilter{Status: storage.DefaultTicketStatus}
	if o, ok := opts["status"]; ok {
		filter.Status = o.StringValue()
	}
	if o, ok := opts["assignee"]; ok {
		filter.Assignee = o.UserValue(nil).ID
	}
	if o, ok := opts["category"]; ok {
		filter.Category = o.StringValue()
	}

	tickets, err := sctx.Storage.ListTickets(context.Background(), e.GuildID, filter)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	embed := core.Embed(s)
	embed.Title = fmt.Sprintf("Tickets (%d)", len(tickets))
	embed.Description = ticketList(tickets)
	return core.EditResponseEmbed(s, e, embed, nil)
}

func (c *TicketCommand) setup(sctx *core.SlashContext, guild *storage.Guild, opts optionMap) error {
	s, e := sctx.Session, sctx.Event
	if sctx.Level < core.LevelAdmin {
		return core.NewUserError("Only server admins can set up ticket support.")
	}

	enabled := true
	if o, ok := opts["enabled"]; ok {
		enabled = o.BoolValue()
	}

	channelID := ""
	if enabled {
		channelID = guild.TicketSystemChannelID
		if channelID == "" {
			channel, err := s.GuildChannelCreate(e.GuildID, ticketCategoryChannel, discordgo.ChannelTypeGuildCategory)
			if err != nil {
				return fmt.Errorf("create ticket category: %w", err)
			}
			channelID = channel.ID
		}
	}

	if err := sctx.Storage.SetTicketSystem(context.Background(), e.GuildID, enabled, channelID); err != nil {
		return fmt.Errorf("set ticket system: %w", err)
	}

	if enabled {
		return core.EditResponse(s, e, "Ticket system enabled")
	}
	return core.EditResponse(s, e, "Ticket system disabled")
}

func (c *TicketCommand) view(sctx *core.SlashContext, opts optionMap) error {
	s, e := sctx.Session, sctx.Event
	ref := opts["id"].StringValue()

	ticket, err := sctx.Storage.GetTicket(context.Background(), e.GuildID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return core.EditResponse(s, e, "No ticket with ID "+ref)
	}
	if err != nil {
		return fmt.Errorf("get ticket: %w", err)
	}

	embed := core.Embed(s)
	embed.Title = fmt.Sprintf("Ticket #%d", ticket.ID)
	embed.Description = ticket.Subject
	embed.Fields = ticketFields(ticket)
	return core.EditResponseEmbed(s, e, embed, nil)
}

// canManage reports whether the caller may edit or close t.
func canManage(level int, userID string, t *storage.Ticket) bool {
	return level >= core.LevelModerator || t.UserID == userID
}

func ticketChannelName(shortID string, closed bool) string {
	name := "ticket-" + shortID
	if closed {
		name += "-closed"
	}
	return name
}

func ticketTopic(t *storage.Ticket) string {
	return core.Truncate("Subject: "+t.Subject+" | Category: "+categoryName(t.Category), 1024)
}

func categoryName(value string) string {
	for _, c := range ticketCategories {
		if c.Value == value {
			return c.Name
		}
	}
	return "Unknown"
}

func ticketList(tickets []storage.Ticket) string {
	if len(tickets) == 0 {
		return "No tickets found"
	}
	lines := make([]string, len(tickets))
	for i, t := range tickets {
		line := fmt.Sprintf("`#%d` ", t.ID)
		if t.ChannelID != "" {
			line += "<#" + t.ChannelID + "> "
		}
		line += "- " + t.Subject
		if t.Closed() {
			line += " (closed)"
		}
		lines[i] = line
	}
	return core.JoinLimited(lines, maxDescription)
}

func ticketFields(t *storage.Ticket) []*discordgo.MessageEmbedField {
	field := func(name, value string, inline bool) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
	}

	fields := []*discordgo.MessageEmbedField{
		field("Category", categoryName(t.Category), true),
		field("Opened By", "<@"+t.UserID+">", true),
		field("Created", fmt.Sprintf(discordTimestamp, t.CreatedAt.Unix()), true),
	}
	if t.ChannelID != "" {
		fields = append(fields, field("Channel", "<#"+t.ChannelID+">", true))
	}
	if t.Assignee != "" {
		fields = append(fields, field("Assignee", "<@"+t.Assignee+">", true))
	}
	if t.Closed() {
		fields = append(fields,
			field("Closed", fmt.Sprintf(discordTimestamp, t.ClosedAt.Unix()), false),
			field("Closed By", "<@"+t.ClosedBy+">", false),
			field("Closed Reason", t.ClosedReason, false),
		)
	}
	return fields
}

// ticketChoices offers tickets whose id or subject contains query.
func ticketChoices(tickets []storage.Ticket, query string) []*discordgo.ApplicationCommandOptionChoice {
	query = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(query), "#"))
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, t := range tickets {
		if len(choices) == maxChoices {
			break
		}
		id := strconv.FormatUint(uint64(t.ID), 10)
		name := "#" + id + " " + t.Subject
		if query != "" && !strings.Contains(strings.ToLower(name), query) && !strings.HasPrefix(t.ShortID, query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  core.Truncate(name, maxChoiceLength),
			Value: id,
		})
	}
	return choices
}
