package support

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/faq"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

var entries = []faq.Entry{
	{Question: "How do I center a div?", Answer: "<p>Use flexbox.</p>"},
	{Question: "Why is my JavaScript undefined?", Answer: "<p>Check the scope.</p>"},
	{Question: "Where do I host my site?", Answer: "<p>GitHub Pages.</p>"},
}

func autocompleteContext(svc *core.Services, sub string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *core.SlashContext {
	return &core.SlashContext{
		Services: svc,
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommandAutocomplete,
			GuildID: "g1",
			Data: discordgo.ApplicationCommandInteractionData{
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Type:    discordgo.ApplicationCommandOptionSubCommand,
					Name:    sub,
					Options: opts,
				}},
			},
		}},
	}
}

func focused(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Type:    discordgo.ApplicationCommandOptionString,
		Name:    name,
		Value:   value,
		Focused: true,
	}
}

func Test_Register(t *testing.T) {
	reg := core.NewRegistry()
	require.NoError(t, Register(reg))

	_, ok := reg.Slash("faq")
	assert.True(t, ok)
	_, ok = reg.Slash("ticket")
	assert.True(t, ok)
	_, ok = reg.Component(faqSelectID)
	assert.True(t, ok)
}

func Test_questionList(t *testing.T) {
	assert.Equal(t,
		"1. How do I center a div?\n2. Why is my JavaScript undefined?\n3. Where do I host my site?",
		questionList(entries))
}

func Test_searchSummary(t *testing.T) {
	results := []faq.Result{{Index: 2, Entry: entries[2]}}
	assert.Equal(t, "**1** result found for **\"host\"**\n\n1. Where do I host my site?", searchSummary(results, "host"))

	results = append(results, faq.Result{Index: 0, Entry: entries[0]})
	assert.True(t, strings.HasPrefix(searchSummary(results, "o"), "**2** results found"))
}

func Test_selectMenu(t *testing.T) {
	assert.Empty(t, selectMenu(nil))

	options := make([]discordgo.SelectMenuOption, 30)
	for i := range options {
		options[i] = selectOption(i, i+10, strings.Repeat("q", 200))
	}
	assert.Equal(t, "15", options[5].Value)
	assert.Len(t, []rune(options[0].Label), maxChoiceLength)
	assert.True(t, strings.HasPrefix(options[0].Label, "1. "))

	rows := selectMenu(options)
	require.Len(t, rows, 1)
	menu := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, faqSelectID, menu.CustomID)
	assert.Len(t, menu.Options, maxChoices)
}

func Test_questionChoices(t *testing.T) {
	testCases := []struct {
		query  string
		expect []string
	}{
		{query: "", expect: []string{"0", "1", "2"}},
		{query: "JAVASCRIPT", expect: []string{"1"}},
		{query: " do i ", expect: []string{"0", "2"}},
		{query: "nothing", expect: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			var values []string
			for _, c := range questionChoices(entries, tc.query) {
				values = append(values, c.Value.(string))
			}
			assert.Equal(t, tc.expect, values)
		})
	}
}

func Test_FAQCommand_Autocomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"question":"How do I center a div?","answer":""},{"question":"Where do I host my site?","answer":""}]`))
	}))
	t.Cleanup(srv.Close)

	svc := &core.Services{FAQ: faq.New(srv.URL, time.Minute, srv.Client(), zerolog.Nop())}
	choices, err := (&FAQCommand{}).Autocomplete(autocompleteContext(svc, "get", focused("question", "host")))
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, "Where do I host my site?", choices[0].Name)
	assert.Equal(t, "1", choices[0].Value)

	choices, err = (&FAQCommand{}).Autocomplete(autocompleteContext(&core.Services{}, "get", focused("question", "")))
	assert.NoError(t, err)
	assert.Nil(t, choices)
}

func Test_TicketCommand_Autocomplete(t *testing.T) {
	s, err := storage.Open(storage.DriverSQLite, "file::memory:", gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	open := &storage.Ticket{GuildID: "g1", UserID: "u1", Subject: "Flexbox trouble", Category: "css"}
	closed := &storage.Ticket{GuildID: "g1", UserID: "u1", Subject: "Closed one", Category: "other"}
	require.NoError(t, s.CreateTicket(ctx, open))
	require.NoError(t, s.CreateTicket(ctx, closed))
	_, err = s.CloseTicket(ctx, "g1", "2", "u1", "")
	require.NoError(t, err)

	svc := &core.Services{Storage: s}
	cmd := &TicketCommand{}

	choices, err := cmd.Autocomplete(autocompleteContext(svc, "close", focused("id", "")))
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, "#1 Flexbox trouble", choices[0].Name)

	choices, err = cmd.Autocomplete(autocompleteContext(svc, "view", focused("id", "")))
	require.NoError(t, err)
	assert.Len(t, choices, 2)

	choices, err = cmd.Autocomplete(autocompleteContext(svc, "close", focused("reason", "")))
	require.NoError(t, err)
	assert.Nil(t, choices)
}

func Test_ticketChoices(t *testing.T) {
	tickets := []storage.Ticket{
		{ID: 1, ShortID: "abc123", Subject: "Flexbox trouble"},
		{ID: 2, ShortID: "def456", Subject: "Promise never resolves"},
		{ID: 12, ShortID: "987fed", Subject: "Grid gaps"},
	}

	testCases := []struct {
		query  string
		expect []string
	}{
		{query: "", expect: []string{"1", "2", "12"}},
		{query: "#1", expect: []string{"1", "12"}},
		{query: "promise", expect: []string{"2"}},
		{query: "987", expect: []string{"12"}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			var values []string
			for _, c := range ticketChoices(tickets, tc.query) {
				values = append(values, c.Value.(string))
			}
			assert.Equal(t, tc.expect, values)
		})
	}
}

func Test_canManage(t *testing.T) {
	ticket := &storage.Ticket{UserID: "owner"}

	testCases := []struct {
		name   string
		level  int
		userID string
		expect bool
	}{
		{name: "owner", level: core.LevelEveryone, userID: "owner", expect: true},
		{name: "stranger", level: core.LevelEveryone, userID: "other"},
		{name: "moderator", level: core.LevelModerator, userID: "other", expect: true},
		{name: "admin", level: core.LevelAdmin, userID: "other", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, canManage(tc.level, tc.userID, ticket))
		})
	}
}

func Test_ticketFormatting(t *testing.T) {
	assert.Equal(t, "ticket-abc123", ticketChannelName("abc123", false))
	assert.Equal(t, "ticket-abc123-closed", ticketChannelName("abc123", true))
	assert.Equal(t, "Styling (CSS)", categoryName("css"))
	assert.Equal(t, "Unknown", categoryName("cobol"))
	assert.Equal(t, "Subject: Flexbox | Category: Styling (CSS)", ticketTopic(&storage.Ticket{Subject: "Flexbox", Category: "css"}))

	closedAt := time.Unix(1700000000, 0)
	tickets := []storage.Ticket{
		{ID: 1, ChannelID: "c1", Subject: "Flexbox"},
		{ID: 2, Subject: "Promises", ClosedAt: &closedAt},
	}
	assert.Equal(t, "`#1` <#c1> - Flexbox\n`#2` - Promises (closed)", ticketList(tickets))
	assert.Equal(t, "No tickets found", ticketList(nil))
}

func Test_ticketFields(t *testing.T) {
	created := time.Unix(1690000000, 0)
	closedAt := time.Unix(1700000000, 0)

	open := &storage.Ticket{UserID: "u1", Category: "js", ChannelID: "c1", CreatedAt: created}
	names := func(fields []*discordgo.MessageEmbedField) []string {
		var out []string
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Category", "Opened By", "Created", "Channel"}, names(ticketFields(open)))

	closed := &storage.Ticket{
		UserID:       "u1",
		Category:     "js",
		Assignee:     "u2",
		CreatedAt:    created,
		ClosedAt:     &closedAt,
		ClosedBy:     "u3",
		ClosedReason: "Solved",
	}
	fields := ticketFields(closed)
	assert.Equal(t, []string{"Category", "Opened By", "Created", "Assignee", "Closed", "Closed By", "Closed Reason"}, names(fields))
	assert.Equal(t, "<t:1700000000:f>", fields[4].Value)
	assert.Equal(t, "<@u3>", fields[5].Value)
	assert.Equal(t, "Solved", fields[6].Value)
}
