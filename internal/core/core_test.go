package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/metrics"
	"github.com/keshon/support-bot/internal/parser"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type testCommand struct {
	name     string
	aliases  []string
	category string
	level    int
	userPerm []int64
	botPerm  []int64
	disabled bool
	err      error
	calls    int
}

func (c *testCommand) Name() string             { return c.name }
func (c *testCommand) Description() string      { return "test command" }
func (c *testCommand) Aliases() []string        { return c.aliases }
func (c *testCommand) Category() string         { return c.category }
func (c *testCommand) Usage() string            { return "" }
func (c *testCommand) Level() int               { return c.level }
func (c *testCommand) Hidden() bool             { return false }
func (c *testCommand) UserPermissions() []int64 { return c.userPerm }
func (c *testCommand) BotPermissions() []int64  { return c.botPerm }
func (c *testCommand) Disabled() bool           { return c.disabled }
func (c *testCommand) Run(ctx interface{}) error {
	c.calls++
	return c.err
}

type slashCommand struct{ testCommand }

func (c *slashCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.name, Description: "slash"}
}

type fakePerms map[string]int64

func (f fakePerms) UserChannelPermissions(userID, _ string) (int64, error) {
	p, ok := f[userID]
	if !ok {
		return 0, errors.New("unknown user")
	}
	return p, nil
}

type fakeControl struct{}

func (fakeControl) BotID() string                                      { return "bot" }
func (fakeControl) Stats() Stats                                       { return Stats{} }
func (fakeControl) DeployCommands(context.Context, string) (int, error) { return 0, nil }
func (fakeControl) ResetCommands(context.Context, string) error         { return nil }

func messageCtx(svc *Services, guildID, userID string, level int) *MessageContext {
	return &MessageContext{
		Services: svc,
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   guildID,
			ChannelID: "chan",
			Author:    &discordgo.User{ID: userID, Username: "user-" + userID},
		}},
		Parsed: parser.Result{Success: true, Command: "x", Body: "some args"},
		Level:  level,
	}
}

func newStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(storage.DriverSQLite, "file::memory:", gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	return ue.Message
}

func Test_Registry(t *testing.T) {
	r := NewRegistry()

	help := &testCommand{name: "help", category: "🕯️ Information"}
	ping := &testCommand{name: "ping", aliases: []string{"hello", "Status"}, category: "🛠️ Maintenance"}
	require.NoError(t, r.Register(ping))
	require.NoError(t, r.Register(help))

	assert.ErrorContains(t, r.Register(&testCommand{name: "hello"}), "already registered")
	_, ok := r.Get("x")
	assert.False(t, ok)

	testCases := []struct {
		name   string
		expect string
	}{
		{name: "ping", expect: "ping"},
		{name: "HELLO", expect: "ping"},
		{name: "status", expect: "ping"},
		{name: "help", expect: "help"},
	}
	for _, tc := range testCases {
		cmd, ok := r.Get(tc.name)
		require.True(t, ok, tc.name)
		assert.Equal(t, tc.expect, cmd.Name())
	}

	all := r.All()
	if assert.Len(t, all, 2) {
		assert.Equal(t, "help", all[0].Name())
		assert.Equal(t, "ping", all[1].Name())
	}
}

func Test_Registry_slashAndComponents(t *testing.T) {
	r := NewRegistry()
	faq := &slashCommand{testCommand{name: "faq", category: "🛟 Support"}}

	assert.Error(t, r.RegisterSlash(&testCommand{name: "plain"}))
	require.NoError(t, r.RegisterSlash(ApplyMiddlewares(faq, WithLevelCheck())))
	assert.Error(t, r.RegisterSlash(faq))

	r.RegisterComponent("faq_select", faq)
	cmd, ok := r.Component("faq_select")
	require.True(t, ok)
	assert.Equal(t, "faq", cmd.Name())

	defs := r.SlashDefinitions()
	if assert.Len(t, defs, 1) {
		assert.Equal(t, "faq", defs[0].Name)
	}

	require.NoError(t, r.Register(&testCommand{name: "ping", category: "🛠️ Maintenance"}))
	assert.Equal(t, []string{"🛟 Support", "🛠️ Maintenance"}, r.Categories())
}

func Test_ApplyMiddlewares_order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(cmd Command) Command {
			return &wrappedCommand{Command: cmd, wrap: func(ctx interface{}) error {
				order = append(order, name)
				return cmd.Run(ctx)
			}}
		}
	}

	cmd := ApplyMiddlewares(&testCommand{name: "x"}, mark("first"), mark("second"))
	require.NoError(t, cmd.Run(nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

func Test_WithLevelCheck(t *testing.T) {
	testCases := []struct {
		name     string
		required int
		level    int
		allowed  bool
	}{
		{name: "everyone", required: LevelEveryone, level: LevelEveryone, allowed: true},
		{name: "admin needed", required: LevelAdmin, level: LevelModerator, allowed: false},
		{name: "owner passes", required: LevelOwner, level: LevelOwner, allowed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inner := &testCommand{name: "eval", level: tc.required}
			err := ApplyMiddlewares(inner, WithLevelCheck()).Run(messageCtx(&Services{}, "g", "u", tc.level))

			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, 1, inner.calls)
				return
			}
			assert.Equal(t, ":lock: You do not have permission to use this command.", userMessage(t, err))
			assert.Zero(t, inner.calls)
		})
	}
}

func Test_WithGuildOnly(t *testing.T) {
	inner := &testCommand{name: "ticket"}
	cmd := ApplyMiddlewares(inner, WithGuildOnly())

	assert.Error(t, cmd.Run(messageCtx(&Services{}, "", "u", 0)))
	assert.NoError(t, cmd.Run(messageCtx(&Services{}, "g", "u", 0)))
	assert.Equal(t, 1, inner.calls)
}

func Test_WithPermissionCheck(t *testing.T) {
	svc := &Services{
		Perms: fakePerms{
			"mod":   discordgo.PermissionManageMessages | discordgo.PermissionSendMessages,
			"plain": discordgo.PermissionSendMessages,
			"admin": discordgo.PermissionAdministrator,
			"bot":   discordgo.PermissionSendMessages,
		},
		Control: fakeControl{},
	}

	testCases := []struct {
		name    string
		user    string
		userReq []int64
		botReq  []int64
		expect  string
	}{
		{name: "nothing required", user: "plain"},
		{name: "user has it", user: "mod", userReq: []int64{discordgo.PermissionManageMessages}},
		{name: "administrator implies all", user: "admin", userReq: []int64{discordgo.PermissionBanMembers}},
		{
			name:    "user missing",
			user:    "plain",
			userReq: []int64{discordgo.PermissionManageMessages},
			expect:  "You are missing:\n> `Manage Messages`",
		},
		{
			name:   "bot missing",
			user:   "plain",
			botReq: []int64{discordgo.PermissionSendMessages, discordgo.PermissionEmbedLinks},
			expect: "I am missing:\n> `Embed Links`\n**Required**: `Embed Links`",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inner := &testCommand{name: "x", userPerm: tc.userReq, botPerm: tc.botReq}
			err := ApplyMiddlewares(inner, WithPermissionCheck()).Run(messageCtx(svc, "g", tc.user, 0))

			if tc.expect == "" {
				assert.NoError(t, err)
				assert.Equal(t, 1, inner.calls)
				return
			}
			msg := userMessage(t, err)
			assert.Contains(t, msg, ":x: The command could not be preformed")
			assert.Contains(t, msg, tc.expect)
			assert.Zero(t, inner.calls)
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		inner := &testCommand{name: "x", userPerm: []int64{discordgo.PermissionManageMessages}}
		err := ApplyMiddlewares(inner, WithPermissionCheck()).Run(messageCtx(svc, "g", "ghost", 0))
		assert.ErrorContains(t, err, "failed to get user permissions")
	})

	t.Run("outside guild", func(t *testing.T) {
		inner := &testCommand{name: "x", userPerm: []int64{discordgo.PermissionManageMessages}}
		err := ApplyMiddlewares(inner, WithPermissionCheck()).Run(messageCtx(svc, "", "ghost", 0))
		assert.NoError(t, err)
	})
}

func Test_WithDisabled(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t)
	svc := &Services{Storage: store, Logger: zerolog.Nop()}

	require.NoError(t, store.DisableCommand(ctx, "g", "💬 Community"))

	testCases := []struct {
		name   string
		cmd    *testCommand
		guild  string
		level  int
		expect string
	}{
		{name: "enabled", cmd: &testCommand{name: "ping"}, guild: "g"},
		{name: "globally disabled", cmd: &testCommand{name: "ping", disabled: true}, guild: "g", expect: "🔒 This command has been disabled."},
		{name: "owner bypasses", cmd: &testCommand{name: "ping", disabled: true}, guild: "g", level: LevelOwner},
		{name: "category disabled", cmd: &testCommand{name: "quote", category: "💬 Community"}, guild: "g", expect: "🔒 This command is disabled on this server."},
		{name: "other guild", cmd: &testCommand{name: "quote", category: "💬 Community"}, guild: "h"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := ApplyMiddlewares(tc.cmd, WithDisabled(), WithLevelCheck())
			err := cmd.Run(messageCtx(svc, tc.guild, "u", tc.level))
			if tc.expect == "" {
				assert.NoError(t, err)
				assert.Equal(t, 1, tc.cmd.calls)
				return
			}
			assert.Equal(t, tc.expect, userMessage(t, err))
			assert.True(t, IsDisabled(cmd) == tc.cmd.disabled)
		})
	}
}

func Test_WithCooldown(t *testing.T) {
	inner := &testCommand{name: "faq"}
	cmd := ApplyMiddlewares(inner, WithCooldown(time.Hour))
	svc := &Services{}

	require.NoError(t, cmd.Run(messageCtx(svc, "g", "alice", 0)))
	err := cmd.Run(messageCtx(svc, "g", "alice", 0))
	assert.Contains(t, userMessage(t, err), "Slow down")

	require.NoError(t, cmd.Run(messageCtx(svc, "g", "bob", 0)))
	require.NoError(t, cmd.Run(messageCtx(svc, "g", "alice", LevelOwner)))
	assert.Equal(t, 3, inner.calls)

	assert.Same(t, inner, ApplyMiddlewares(inner, WithCooldown(0)))
}

func Test_WithCommandLogger(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := &Services{Storage: store, Metrics: m, Logger: zerolog.Nop()}

	ok := ApplyMiddlewares(&testCommand{name: "ping"}, WithCommandLogger())
	failing := ApplyMiddlewares(&testCommand{name: "eval", err: errors.New("boom")}, WithCommandLogger())
	rejected := ApplyMiddlewares(&testCommand{name: "eval", err: NewUserError("nope")}, WithCommandLogger())

	require.NoError(t, ok.Run(messageCtx(svc, "g", "u", 0)))
	assert.EqualError(t, failing.Run(messageCtx(svc, "g", "u", 0)), "boom")
	assert.Error(t, rejected.Run(messageCtx(svc, "g", "u", 0)))
	require.NoError(t, ok.Run(messageCtx(svc, "", "u", 0)))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commands.WithLabelValues("ping", "message", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("eval", "message", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("eval", "message", "rejected")))

	history, err := store.CommandHistory(ctx, "g")
	require.NoError(t, err)
	if assert.Len(t, history, 2) {
		assert.Equal(t, "ping", history[0].Command)
		assert.Equal(t, "some args", history[0].Args)
		assert.Equal(t, "user-u", history[0].Username)
		assert.Equal(t, "eval", history[1].Command)
	}
}

func Test_EventBus(t *testing.T) {
	bus := NewEventBus(1)
	assert.True(t, bus.Publish(SystemEvent{Type: SystemEventRestart, Force: true}))
	assert.False(t, bus.Publish(SystemEvent{Type: SystemEventShutdown}))

	ev := <-bus.Events()
	assert.Equal(t, SystemEventRestart, ev.Type)
	assert.True(t, ev.Force)
	assert.Equal(t, "restart", ev.Type.String())
}

func Test_SubcommandOptions(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{{
		Name: "get",
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "id", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(4)},
		},
	}}

	sub, got := SubcommandOptions(opts)
	assert.Equal(t, "get", sub)
	assert.Equal(t, int64(4), got["id"].IntValue())

	sub, got = SubcommandOptions(opts[0].Options)
	assert.Equal(t, "", sub)
	assert.Contains(t, got, "id")
}

func Test_Plural(t *testing.T) {
	assert.Equal(t, "star", Plural(0, "star", "stars"))
	assert.Equal(t, "star", Plural(1, "star", "stars"))
	assert.Equal(t, "stars", Plural(2, "star", "stars"))
}

func Test_CleanText(t *testing.T) {
	assert.Equal(t, "@\u200beveryone `\u200bx`\u200b", CleanText("@everyone `x`"))
	assert.Equal(t, "plain", CleanText("plain"))
}

func Test_ParseCodeblock(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "plain", input: "1 + 1", expect: "1 + 1"},
		{name: "fenced with lang", input: "```js\nconst a = 1;\na * 2\n```", expect: "const a = 1;\na * 2"},
		{name: "fenced without lang", input: "```\n40 + 2\n```", expect: "40 + 2"},
		{name: "four backticks", input: "````go\nx\n````", expect: "x"},
		{name: "surrounding space", input: "  ```\ny\n```  ", expect: "y"},
		{name: "single line fence", input: "```x```", expect: "```x```"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ParseCodeblock(tc.input))
		})
	}

	assert.Equal(t, "```js\n2\n```", WrapCodeblock("2", "js"))
}

func Test_ResolveLevel(t *testing.T) {
	testCases := []struct {
		name   string
		admin  bool
		owner  bool
		perms  int64
		expect int
	}{
		{name: "bot admin", admin: true, expect: LevelOwner},
		{name: "guild owner", owner: true, expect: LevelAdmin},
		{name: "administrator", perms: discordgo.PermissionAdministrator, expect: LevelAdmin},
		{name: "moderator", perms: discordgo.PermissionManageMessages, expect: LevelModerator},
		{name: "member", perms: discordgo.PermissionSendMessages, expect: LevelEveryone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ResolveLevel(tc.admin, tc.owner, tc.perms))
		})
	}
}

func Test_Truncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…", Truncate("abcdef", 4))
	assert.Equal(t, "🍞🍞…", Truncate("🍞🍞🍞🍞", 3))
}

func Test_MissingPermissions(t *testing.T) {
	have := int64(discordgo.PermissionSendMessages)
	assert.Empty(t, MissingPermissions(have, []int64{discordgo.PermissionSendMessages}))
	assert.Equal(t, []string{"Embed Links"}, MissingPermissions(have, []int64{discordgo.PermissionEmbedLinks}))
	assert.Empty(t, MissingPermissions(discordgo.PermissionAdministrator, []int64{discordgo.PermissionEmbedLinks}))
	assert.Equal(t, "0x8000000000000", PermissionName(1<<51))
}

func Test_JoinLimited(t *testing.T) {
	assert.Equal(t, "a\nb", JoinLimited([]string{"a", "b"}, 100))

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "123456789"
	}
	assert.Equal(t, "123456789\n123456789\n123456789\n… and 7 more", JoinLimited(lines, 50))
}
