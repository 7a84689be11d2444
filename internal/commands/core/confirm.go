package core

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
)

const confirmTimeout = 5 * time.Second

// confirmation is a yes/no question asked with two buttons.
type confirmation struct {
	question  string
	yes       string
	no        string
	confirmID string
	cancelID  string
}

func (c confirmation) ask(s *discordgo.Session, msg *discordgo.Message) error {
	_, err := s.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content:    c.question,
		Reference:  msg.Reference(),
		Components: c.components(),
	})
	return err
}

func (c confirmation) components() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "✅ Confirm", Style: discordgo.DangerButton, CustomID: c.confirmID},
			discordgo.Button{Label: "❌ Cancel", Style: discordgo.SecondaryButton, CustomID: c.cancelID},
		}},
	}
}

// answer resolves a button press. It reports true only for a confirmation
// pressed within confirmTimeout of the question.
func (c confirmation) answer(customID string, asked, now time.Time) (string, bool) {
	if customID != c.confirmID || expired(asked, now) {
		return c.no, false
	}
	return c.yes, true
}

func expired(asked, now time.Time) bool {
	return !asked.IsZero() && now.Sub(asked) > confirmTimeout
}

// resolve answers a component press on the question message.
func (c confirmation) resolve(ctx *core.ComponentContext) (bool, error) {
	var asked time.Time
	if ctx.Event.Message != nil {
		asked = ctx.Event.Message.Timestamp
	}
	reply, ok := c.answer(ctx.Event.MessageComponentData().CustomID, asked, time.Now())
	return ok, core.UpdateMessage(ctx.Session, ctx.Event, reply)
}
