package discord

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBot(t *testing.T, admins ...string) *Bot {
	t.Helper()
	return New(Options{
		Config:   &config.Config{Prefix: "?", Admins: admins, StatusInterval: time.Minute},
		Registry: core.NewRegistry(),
		Logger:   zerolog.Nop(),
		CacheDir: t.TempDir(),
	})
}

func Test_Prefixes(t *testing.T) {
	testCases := []struct {
		name    string
		botID   string
		inGuild bool
		expect  []string
	}{
		{name: "guild", botID: "42", inGuild: true, expect: []string{"?", "<@42> ", "<@!42> "}},
		{name: "direct message", botID: "42", expect: []string{"?"}},
		{name: "not connected", inGuild: true, expect: []string{"?"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Prefixes("?", tc.botID, tc.inGuild))
		})
	}
}

func Test_acceptedChannelType(t *testing.T) {
	assert.True(t, acceptedChannelType(discordgo.ChannelTypeGuildText))
	assert.True(t, acceptedChannelType(discordgo.ChannelTypeGuildPublicThread))
	assert.True(t, acceptedChannelType(discordgo.ChannelTypeGuildPrivateThread))
	assert.False(t, acceptedChannelType(discordgo.ChannelTypeDM))
	assert.False(t, acceptedChannelType(discordgo.ChannelTypeGuildVoice))
}

func Test_errorReply(t *testing.T) {
	assert.Equal(t, "Nope.", errorReply(core.NewUserError("Nope.")))
	assert.Equal(t, "Nope.", errorReply(fmt.Errorf("wrapped: %w", core.NewUserError("Nope."))))
	assert.Equal(t, genericFailure, errorReply(errors.New("database is on fire")))
}

func Test_blocklistEmbed(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	embed := blocklistEmbed(nil, "hello", "123", now)

	assert.Equal(t, "Stop, my g", embed.Author.Name)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, `Do not "hello" me!`, embed.Fields[0].Name)
	assert.Equal(t, "I do not approve of this <@123> :woozy_face: :gun:", embed.Fields[0].Value)
	assert.Equal(t, "2024-01-02T03:04:05Z", embed.Timestamp)
}

func Test_imageURLs(t *testing.T) {
	m := &discordgo.Message{Embeds: []*discordgo.MessageEmbed{
		{Image: &discordgo.MessageEmbedImage{URL: "https://cdn.example/a.png"}},
		{Title: "no image"},
		{Image: &discordgo.MessageEmbedImage{}},
	}}
	assert.Equal(t, []string{"https://cdn.example/a.png"}, imageURLs(m))
	assert.Nil(t, imageURLs(&discordgo.Message{}))
}

func Test_reactionEmoji(t *testing.T) {
	testCases := []struct {
		in, expect string
	}{
		{in: "🍞", expect: "🍞"},
		{in: "<:huehueheinz:817122325556101150>", expect: "huehueheinz:817122325556101150"},
		{in: "<a:dance:1>", expect: "dance:1"},
		{in: "<:apple:2>", expect: "apple:2"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expect, reactionEmoji(tc.in))
		})
	}
}

func Test_hashCommand(t *testing.T) {
	def := func(desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
		return &discordgo.ApplicationCommand{Name: "faq", Description: desc, Options: opts}
	}
	list := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List."}
	get := &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "get", Description: "Get."}

	base := hashCommand(def("FAQ", list, get))
	assert.Equal(t, base, hashCommand(def("FAQ", get, list)), "option order")
	assert.Equal(t, base, hashCommand(&discordgo.ApplicationCommand{
		ID: "1", Version: "2", Type: discordgo.ChatApplicationCommand,
		Name: "faq", Description: "FAQ", Options: []*discordgo.ApplicationCommandOption{list, get},
	}), "discord assigned fields")
	assert.NotEqual(t, base, hashCommand(def("Questions", list, get)))

	auto := *get
	auto.Autocomplete = true
	assert.NotEqual(t, base, hashCommand(def("FAQ", list, &auto)))

	hashes := hashCommands([]*discordgo.ApplicationCommand{def("FAQ", list)})
	assert.Len(t, hashes, 1)
	assert.Contains(t, hashes, "faq")
}

func Test_commandHashCache(t *testing.T) {
	dir := t.TempDir()

	hashes, err := loadCommandHashes(dir, "g1")
	require.NoError(t, err)
	assert.Empty(t, hashes)

	require.NoError(t, saveCommandHashes(dir, "g1", map[string]string{"faq": "abc"}))
	require.NoError(t, saveCommandHashes(dir, "", map[string]string{"ticket": "def"}))
	assert.FileExists(t, filepath.Join(dir, "global.json"))

	hashes, err = loadCommandHashes(dir, "g1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"faq": "abc"}, hashes)

	require.NoError(t, clearCommandHashes(dir, "g1"))
	require.NoError(t, clearCommandHashes(dir, "g1"))
	hashes, err = loadCommandHashes(dir, "g1")
	require.NoError(t, err)
	assert.Empty(t, hashes)
}

func Test_sameNames(t *testing.T) {
	hashes := map[string]string{"faq": "1", "ticket": "2"}
	remote := []*discordgo.ApplicationCommand{{Name: "ticket"}, {Name: "faq"}}
	assert.True(t, sameNames(remote, hashes))
	assert.False(t, sameNames(remote[:1], hashes))
	assert.False(t, sameNames([]*discordgo.ApplicationCommand{{Name: "faq"}, {Name: "quote"}}, hashes))
}

func Test_applicationOwners(t *testing.T) {
	assert.Empty(t, applicationOwners(nil))

	app := &discordgo.Application{
		Owner: &discordgo.User{ID: "owner"},
		Team: &discordgo.Team{Members: []*discordgo.TeamMember{
			{User: &discordgo.User{ID: "t1"}},
			{User: &discordgo.User{ID: "t2"}},
			{},
		}},
	}
	assert.Equal(t, map[string]bool{"owner": true, "t1": true, "t2": true}, applicationOwners(app))
}

func testState(t *testing.T) *discordgo.State {
	t.Helper()
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{
		ID:          "g1",
		OwnerID:     "owner",
		MemberCount: 10,
		Roles: []*discordgo.Role{
			{ID: "g1"},
			{ID: "mods", Permissions: discordgo.PermissionManageMessages},
		},
		Channels: []*discordgo.Channel{
			{ID: "c1", GuildID: "g1", Type: discordgo.ChannelTypeGuildText},
			{ID: "c2", GuildID: "g1", Type: discordgo.ChannelTypeGuildVoice},
		},
		Members: []*discordgo.Member{
			{GuildID: "g1", User: &discordgo.User{ID: "mod"}, Roles: []string{"mods"}},
			{GuildID: "g1", User: &discordgo.User{ID: "member"}},
		},
	}))
	require.NoError(t, state.GuildAdd(&discordgo.Guild{ID: "g2", MemberCount: 5}))
	return state
}

func Test_stateStats(t *testing.T) {
	assert.Equal(t, core.Stats{}, stateStats(nil))
	assert.Equal(t, core.Stats{Guilds: 2, Users: 15, Channels: 2}, stateStats(testState(t)))
}

func Test_memberLevel(t *testing.T) {
	b := newBot(t, "admin")
	s := &discordgo.Session{State: testState(t)}

	testCases := []struct {
		name    string
		guildID string
		userID  string
		expect  int
	}{
		{name: "bot admin", guildID: "g1", userID: "admin", expect: core.LevelOwner},
		{name: "guild owner", guildID: "g1", userID: "owner", expect: core.LevelAdmin},
		{name: "moderator", guildID: "g1", userID: "mod", expect: core.LevelModerator},
		{name: "member", guildID: "g1", userID: "member", expect: core.LevelEveryone},
		{name: "unknown member", guildID: "g1", userID: "ghost", expect: core.LevelEveryone},
		{name: "direct message admin", userID: "admin", expect: core.LevelOwner},
		{name: "direct message", userID: "member", expect: core.LevelEveryone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, b.memberLevel(s, tc.guildID, "c1", tc.userID))
		})
	}
}

func Test_interactionLevel(t *testing.T) {
	b := newBot(t)
	b.owners = map[string]bool{"app-owner": true}
	s := &discordgo.Session{State: testState(t)}

	interaction := func(userID string, perms int64, inGuild bool) *discordgo.InteractionCreate {
		i := &discordgo.Interaction{}
		if inGuild {
			i.GuildID = "g1"
			i.Member = &discordgo.Member{User: &discordgo.User{ID: userID}, Permissions: perms}
		} else {
			i.User = &discordgo.User{ID: userID}
		}
		return &discordgo.InteractionCreate{Interaction: i}
	}

	assert.Equal(t, core.LevelOwner, b.interactionLevel(s, interaction("app-owner", 0, true)))
	assert.Equal(t, core.LevelAdmin, b.interactionLevel(s, interaction("x", discordgo.PermissionAdministrator, true)))
	assert.Equal(t, core.LevelAdmin, b.interactionLevel(s, interaction("owner", 0, true)))
	assert.Equal(t, core.LevelModerator, b.interactionLevel(s, interaction("x", discordgo.PermissionManageMessages, true)))
	assert.Equal(t, core.LevelEveryone, b.interactionLevel(s, interaction("x", 0, false)))
	assert.Equal(t, core.LevelOwner, b.interactionLevel(s, interaction("app-owner", 0, false)))
}

func Test_adminCount(t *testing.T) {
	b := newBot(t, "a", "b")
	b.owners = map[string]bool{"b": true, "c": true}
	assert.Equal(t, 3, b.adminCount())
}

func Test_presenceText(t *testing.T) {
	st := core.Stats{Guilds: 1, Users: 12, Channels: 7}
	assert.Equal(t, "yall struggle to code", presenceText(0, st))
	assert.Equal(t, "12 users", presenceText(1, st))
	assert.Equal(t, "1 guild", presenceText(2, st))
	assert.Equal(t, "7 channels", presenceText(3, st))
	assert.Equal(t, "yall struggle to code", presenceText(4, st))
}

func Test_Bot_disconnected(t *testing.T) {
	b := newBot(t)

	assert.Empty(t, b.BotID())
	assert.Equal(t, core.Stats{}, b.Stats())

	_, err := b.UserChannelPermissions("u", "c")
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = b.DeployCommands(context.Background(), "g1")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, b.ResetCommands(context.Background(), "g1"), ErrNotConnected)

	svc := b.Services()
	assert.Same(t, b, svc.Control)
	assert.Same(t, b, svc.Perms)
	assert.NotNil(t, svc.Events)
}

func Test_handleSystemEvents(t *testing.T) {
	testCases := []struct {
		name   string
		events []core.SystemEvent
		expect bool
	}{
		{name: "restart", events: []core.SystemEvent{{Type: core.SystemEventReload}, {Type: core.SystemEventRestart}}, expect: true},
		{name: "shutdown", events: []core.SystemEvent{{Type: core.SystemEventShutdown}}, expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBot(t)
			for _, ev := range tc.events {
				require.True(t, b.svc.Events.Publish(ev))
			}
			assert.Equal(t, tc.expect, b.handleSystemEvents(context.Background()))
		})
	}

	t.Run("context done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, newBot(t).handleSystemEvents(ctx))
	})
}
