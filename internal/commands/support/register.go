// Package support holds the FAQ and ticket commands.
package support

import (
	"errors"

	"github.com/keshon/support-bot/internal/core"
)

const (
	category         = "🛟 Support"
	maxDescription   = 4096
	maxChoices       = 25
	maxChoiceLength  = 100
	discordTimestamp = "<t:%d:f>"
)

func Register(reg *core.Registry) error {
	wrap := func(cmd core.Command) core.Command {
		return core.ApplyMiddlewares(cmd,
			core.WithCommandLogger(),
			core.WithDisabled(),
			core.WithLevelCheck(),
			core.WithPermissionCheck(),
		)
	}

	faq := wrap(&FAQCommand{})
	reg.RegisterComponent(faqSelectID, faq)

	return errors.Join(
		reg.RegisterSlash(faq),
		reg.RegisterSlash(core.ApplyMiddlewares(wrap(&TicketCommand{}), core.WithGuildOnly())),
	)
}
