// Package core holds the built-in text commands and the per-server command
// settings.
package core

import (
	"errors"

	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/core"
)

const (
	discordMaxMessageLength = 2000
	discordMaxEmbedLength   = 4096
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper+"\n") - len(codeRightBlockWrapper)

// Register adds the built-in commands to reg.
func Register(reg *core.Registry, cfg *config.Config) error {
	text := func(cmd core.Command) core.Command {
		return core.ApplyMiddlewares(cmd,
			core.WithCommandLogger(),
			core.WithDisabled(),
			core.WithLevelCheck(),
			core.WithPermissionCheck(),
			core.WithCooldown(cfg.CommandCooldown),
		)
	}
	settings := func(cmd core.Command) core.Command {
		return core.ApplyMiddlewares(cmd,
			core.WithCommandLogger(),
			core.WithGuildOnly(),
			core.WithLevelCheck(),
			core.WithPermissionCheck(),
		)
	}

	restart := text(&RestartCommand{})
	shutdown := text(&ShutdownCommand{})

	errs := []error{
		reg.Register(text(&HelpCommand{Prefix: cfg.Prefix})),
		reg.Register(text(&CommandsCommand{})),
		reg.Register(text(&PingCommand{})),
		reg.Register(text(&DeployCommand{})),
		reg.Register(text(&EvalCommand{Timeout: cfg.EvalTimeout, Token: cfg.DiscordToken})),
		reg.Register(text(&ReloadCommand{})),
		reg.Register(restart),
		reg.Register(shutdown),
		reg.RegisterSlash(settings(&ToggleCommand{})),
		reg.RegisterSlash(settings(&StatusCommand{})),
		reg.RegisterSlash(settings(&LogCommand{})),
	}

	for _, id := range []string{restartConfirmID, restartCancelID} {
		reg.RegisterComponent(id, restart)
	}
	for _, id := range []string{shutdownConfirmID, shutdownCancelID} {
		reg.RegisterComponent(id, shutdown)
	}

	return errors.Join(errs...)
}
