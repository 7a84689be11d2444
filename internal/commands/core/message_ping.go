package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/pkg/util"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Get current bot delay" }
func (c *PingCommand) Aliases() []string   { return []string{"hello", "status"} }
func (c *PingCommand) Category() string    { return "🛠️ Maintenance" }
func (c *PingCommand) Usage() string       { return "" }
func (c *PingCommand) Level() int          { return core.LevelEveryone }
func (c *PingCommand) Hidden() bool        { return false }
func (c *PingCommand) UserPermissions() []int64 {
	return nil
}
func (c *PingCommand) BotPermissions() []int64 {
	return []int64{discordgo.PermissionSendMessages}
}

func (c *PingCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.MessageContext)
	if !ok {
		return core.ErrWrongContext
	}
	session, msg := context.Session, context.Event.Message

	start := time.Now()
	var stats core.Stats
	if context.Control != nil {
		stats = context.Control.Stats()
	}

	embed := core.Embed(session)
	embed.Title = "Pong!"
	embed.Fields = pingFields(stats, time.Since(start))

	sent, err := session.ChannelMessageSendEmbedReply(msg.ChannelID, embed, msg.Reference())
	if err != nil {
		return err
	}

	// API latency includes the round trip of the reply itself.
	embed.Fields = pingFields(stats, time.Since(start))
	_, err = session.ChannelMessageEditEmbed(sent.ChannelID, sent.ID, embed)
	return err
}

func pingFields(stats core.Stats, api time.Duration) []*discordgo.MessageEmbedField {
	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}
	return []*discordgo.MessageEmbedField{
		field("WebSocket", fmt.Sprintf("%dms", stats.Heartbeat.Milliseconds())),
		field("API", fmt.Sprintf("%dms", api.Milliseconds())),
		field("Uptime", util.FormatDuration(stats.Uptime)),
		field("Guilds", strconv.Itoa(stats.Guilds)),
		field("Users", strconv.Itoa(stats.Users)),
		field("Channels", strconv.Itoa(stats.Channels)),
	}
}
