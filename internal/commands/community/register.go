// Package community holds the quote, sladder and Advent of Code commands.
package community

import (
	"errors"

	"github.com/keshon/support-bot/internal/core"
)

const category = "💬 Community"

func Register(reg *core.Registry) error {
	wrap := func(cmd core.Command) core.Command {
		return core.ApplyMiddlewares(cmd,
			core.WithCommandLogger(),
			core.WithDisabled(),
			core.WithGuildOnly(),
			core.WithLevelCheck(),
			core.WithPermissionCheck(),
		)
	}

	return errors.Join(
		reg.RegisterSlash(wrap(&QuoteCommand{})),
		reg.RegisterSlash(wrap(&SladderCommand{})),
		reg.RegisterSlash(wrap(&AoCCommand{})),
	)
}
