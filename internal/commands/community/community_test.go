package community

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/aoc"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Register(t *testing.T) {
	reg := core.NewRegistry()
	require.NoError(t, Register(reg))

	subcommands := map[string][]string{}
	for _, def := range reg.SlashDefinitions() {
		for _, o := range def.Options {
			subcommands[def.Name] = append(subcommands[def.Name], o.Name)
		}
	}
	assert.Equal(t, map[string][]string{
		"aoc":     {"leaderboard"},
		"quote":   {"search", "list", "get", "getrandom", "add", "remove"},
		"sladder": {"search", "list", "get", "add", "remove"},
	}, subcommands)
	assert.Equal(t, []string{category}, reg.Categories())
}

func Test_descriptions(t *testing.T) {
	entries := quoteEntries([]storage.Quote{
		{ID: 1, Content: "first"},
		{ID: 12, Content: "second"},
	})

	assert.Equal(t, "`1`: first\n`12`: second", listDescription(entries))
	assert.Equal(t, "1: first\n12: second", searchDescription(entries))

	many := make([]entry, 500)
	for i := range many {
		many[i] = entry{ID: uint(i + 1), Content: strings.Repeat("x", 30)}
	}
	out := listDescription(many)
	assert.LessOrEqual(t, len([]rune(out)), maxDescription)
	assert.Contains(t, out, "more")
}

func Test_quoteDescription(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "to be\n- <@42>, <t:1700000000:R>", quoteDescription("to be", "42", at))
}

func Test_calledBy(t *testing.T) {
	testCases := []struct {
		caller string
		author string
		expect string
	}{
		{caller: "ada", expect: "Called by ada"},
		{caller: "ada", author: "linus", expect: "Called by ada, Quoted by linus"},
	}

	for _, tc := range testCases {
		t.Run(tc.expect, func(t *testing.T) {
			assert.Equal(t, tc.expect, calledBy(tc.caller, tc.author))
		})
	}
}

func Test_options(t *testing.T) {
	intOpt := func(v float64) map[string]*discordgo.ApplicationCommandInteractionDataOption {
		return map[string]*discordgo.ApplicationCommandInteractionDataOption{
			"id": {Name: "id", Type: discordgo.ApplicationCommandOptionInteger, Value: v},
		}
	}

	testCases := []struct {
		name string
		opts map[string]*discordgo.ApplicationCommandInteractionDataOption
		id   uint
		ok   bool
	}{
		{name: "set", opts: intOpt(7), id: 7, ok: true},
		{name: "zero", opts: intOpt(0)},
		{name: "negative", opts: intOpt(-3)},
		{name: "missing", opts: map[string]*discordgo.ApplicationCommandInteractionDataOption{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := idOption(tc.opts)
			assert.Equal(t, tc.id, id)
			assert.Equal(t, tc.ok, ok)
		})
	}

	public := map[string]*discordgo.ApplicationCommandInteractionDataOption{
		"public": {Name: "public", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
	}
	assert.True(t, boolOption(public, "public"))
	assert.False(t, boolOption(public, "other"))
}

func Test_capitalize(t *testing.T) {
	assert.Equal(t, "Quote", capitalize("quote"))
	assert.Equal(t, "", capitalize(""))
}

func Test_leaderboard(t *testing.T) {
	lb := &aoc.Leaderboard{Members: map[string]aoc.Member{
		"1": {ID: "1", Name: "Ada", Stars: 3, LocalScore: 10},
		"2": {ID: "2", Stars: 1, LocalScore: 2},
	}}
	assert.Equal(t, "1: Ada - 3 stars\n2: (anonymous user #2) - 1 star", leaderboardDescription(lb))
	assert.Equal(t, "Nobody has joined yet.", leaderboardDescription(&aoc.Leaderboard{}))

	client := aoc.New("123", "session", 2022)
	assert.Equal(t, "https://adventofcode.com/2022/leaderboard/private/view/123", leaderboardURL(client, time.Now()))
	assert.Empty(t, leaderboardURL(aoc.New("", "", 0), time.Now()))
}
