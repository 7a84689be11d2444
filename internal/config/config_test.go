package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FromMap_defaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := FromMap(map[string]string{"DISCORD_TOKEN": "abc"})
	require.NoError(t, err)

	assert.Equal("abc", cfg.DiscordToken)
	assert.Equal("?", cfg.Prefix)
	assert.Empty(cfg.Admins)
	assert.False(cfg.AllowBots)
	assert.Equal(703687441776.64, cfg.FloatBound)
	assert.Equal("sqlite", cfg.DBDriver)
	assert.Equal("data/support-bot.db", cfg.DBDSN)
	assert.Equal(8080, cfg.WebPort)
	assert.Equal(":8080", cfg.WebAddr())
	assert.Equal(10*time.Minute, cfg.FAQCacheTTL)
	assert.Equal(2*time.Second, cfg.CommandCooldown)
	assert.Equal(5*time.Minute, cfg.StatusInterval)
}

func Test_FromMap_values(t *testing.T) {
	assert := assert.New(t)

	cfg, err := FromMap(map[string]string{
		"DISCORD_TOKEN":              "abc",
		"BOT_PREFIX":                 "sb!",
		"BOT_ADMINS":                 "1,2, 3",
		"ALLOW_SPACE_BEFORE_COMMAND": "true",
		"IGNORE_PREFIX_CASE":         "true",
		"DB_DRIVER":                  "postgres",
		"FAQ_CACHE_TTL":              "30s",
		"FLOAT_BOUND":                "100",
	})
	require.NoError(t, err)

	assert.Equal("sb!", cfg.Prefix)
	assert.True(cfg.IsAdmin("1"))
	assert.True(cfg.IsAdmin("3"))
	assert.False(cfg.IsAdmin("4"))
	assert.Equal(30*time.Second, cfg.FAQCacheTTL)

	opts := cfg.ParserOptions()
	assert.False(opts.AllowBots)
	assert.True(opts.AllowSpaceBeforeCommand)
	assert.True(opts.IgnorePrefixCase)
	assert.Equal(100.0, opts.FloatBound)
}

func Test_FromMap_errors(t *testing.T) {
	testCases := []struct {
		name    string
		environ map[string]string
	}{
		{name: "missing token", environ: map[string]string{}},
		{name: "empty token", environ: map[string]string{"DISCORD_TOKEN": ""}},
		{name: "blank prefix", environ: map[string]string{"DISCORD_TOKEN": "x", "BOT_PREFIX": "  "}},
		{name: "bad driver", environ: map[string]string{"DISCORD_TOKEN": "x", "DB_DRIVER": "mysql"}},
		{name: "bad port", environ: map[string]string{"DISCORD_TOKEN": "x", "WEBSERVER_PORT": "70000"}},
		{name: "bad duration", environ: map[string]string{"DISCORD_TOKEN": "x", "FAQ_CACHE_TTL": "soon"}},
		{name: "negative bound", environ: map[string]string{"DISCORD_TOKEN": "x", "FLOAT_BOUND": "-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromMap(tc.environ)
			assert.Error(t, err)
		})
	}
}

func Test_DotenvFiles(t *testing.T) {
	assert.Equal(t, []string{".env.production.local", ".env.production", ".env"}, DotenvFiles("prod"))
	assert.Equal(t, []string{".env.test.local", ".env.test", ".env"}, DotenvFiles("TESTING"))
	assert.Equal(t, []string{".env.development.local", ".env.development", ".env"}, DotenvFiles(""))
}

func Test_LoadFrom_specificFileWins(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write(".env", "DISCORD_TOKEN=base\nSUPPORTBOT_TEST_ONLY_BASE=1\n")
	write(".env.development", "DISCORD_TOKEN=dev\n")

	t.Setenv("APP_ENV", "")
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")
	t.Cleanup(func() { os.Unsetenv("SUPPORTBOT_TEST_ONLY_BASE") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.DiscordToken)
	assert.Equal(t, "1", os.Getenv("SUPPORTBOT_TEST_ONLY_BASE"))
}

func Test_CategoryWeight(t *testing.T) {
	assert.Less(t, CategoryWeight("🕯️ Information"), CategoryWeight("🛠️ Maintenance"))
	assert.Equal(t, 1000, CategoryWeight("unknown"))
}
