package commands

import (
	"testing"
	"time"

	"github.com/keshon/support-bot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewRegistry(t *testing.T) {
	reg, err := NewRegistry(&config.Config{Prefix: "?", CommandCooldown: time.Second})
	require.NoError(t, err)

	var slash []string
	for _, def := range reg.SlashDefinitions() {
		slash = append(slash, def.Name)
	}
	assert.ElementsMatch(t, []string{"faq", "ticket", "quote", "sladder", "aoc", "cmd-toggle", "cmd-status", "cmd-log"}, slash)

	var text []string
	for _, cmd := range reg.All() {
		text = append(text, cmd.Name())
	}
	assert.Equal(t, []string{"commands", "help", "deploy", "eval", "ping", "reload", "restart", "shutdown"}, text)

	assert.Equal(t, []string{"🕯️ Information", "🛟 Support", "💬 Community", "⚙️ Settings", "🛠️ Maintenance"}, reg.Categories())

	for _, def := range reg.SlashDefinitions() {
		assert.LessOrEqual(t, len(def.Description), 100, def.Name)
		assert.NotEmpty(t, def.Description, def.Name)
	}
}
