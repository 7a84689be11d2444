package main

import (
	"context"

	"github.com/keshon/support-bot/internal/web"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands (default)",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	webDone := make(chan error, 1)
	if a.cfg.WebPort != 0 {
		srv := web.New(a.cfg.WebAddr(), a.bot, a.store, a.metrics, a.logger.With().Str("component", "web").Logger())
		go func() { webDone <- srv.Run(ctx) }()
	} else {
		close(webDone)
	}

	a.logger.Info().Str("version", version).Msg("starting support-bot")
	botErr := a.bot.Run(ctx)
	cancel()

	if err := <-webDone; err != nil {
		a.logger.Error().Err(err).Msg("web server stopped with error")
	}
	if botErr != nil {
		return botErr
	}
	a.logger.Info().Msg("support-bot exited cleanly")
	return nil
}
