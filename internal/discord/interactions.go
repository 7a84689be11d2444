package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/support-bot/internal/core"
	"github.com/rs/zerolog"
)

const notImplemented = "Not implemented or doesn't exist."

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleSlash(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

func (b *Bot) interactionLogger(i *discordgo.InteractionCreate) zerolog.Logger {
	l := b.logger.With().Str("guild_id", i.GuildID).Str("channel_id", i.ChannelID)
	if u := core.InteractionUser(i); u != nil {
		l = l.Str("user", u.String()).Str("user_id", u.ID)
	}
	return l.Logger()
}

// handleSlash acknowledges the command ephemerally before running it, so
// commands always answer by editing the deferred response.
func (b *Bot) handleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	sub, _ := core.SubcommandOptions(data.Options)
	logger := b.interactionLogger(i).With().Str("command", data.Name).Str("subcommand", sub).Logger()
	logger.Info().Msg("slash command called")

	if i.GuildID != "" && b.svc.Storage != nil {
		if _, err := b.svc.Storage.EnsureGuild(context.Background(), i.GuildID); err != nil {
			logger.Error().Err(err).Msg("failed to store guild")
		}
	}

	if err := core.RespondDeferredEphemeral(s, i); err != nil {
		logger.Error().Err(err).Msg("failed to defer interaction")
		return
	}

	cmd, ok := b.reg.Slash(data.Name)
	if !ok {
		if err := core.EditResponse(s, i, notImplemented); err != nil {
			logger.Warn().Err(err).Msg("failed to answer unknown command")
		}
		return
	}

	ctx := &core.SlashContext{Services: b.svc, Session: s, Event: i, Level: b.interactionLevel(s, i)}
	if err := cmd.Run(ctx); err != nil {
		if rerr := core.EditResponse(s, i, errorReply(err)); rerr != nil {
			logger.Warn().Err(rerr).Msg("failed to report command error")
		}
	}
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	logger := b.interactionLogger(i).With().Str("command", data.Name).Logger()

	var choices []*discordgo.ApplicationCommandOptionChoice
	if cmd, ok := b.reg.Slash(data.Name); ok {
		if ac, ok := cmd.(core.Autocompleter); ok {
			ctx := &core.SlashContext{Services: b.svc, Session: s, Event: i, Level: b.interactionLevel(s, i)}
			var err error
			if choices, err = ac.Autocomplete(ctx); err != nil {
				logger.Warn().Err(err).Msg("autocomplete failed")
			}
		}
	}
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	if err := core.Autocomplete(s, i, choices); err != nil {
		logger.Debug().Err(err).Msg("failed to send autocomplete choices")
	}
}

// handleComponent routes buttons and menus by custom id. Handlers respond
// themselves.
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	logger := b.interactionLogger(i).With().Str("custom_id", customID).Logger()

	cmd, ok := b.reg.Component(customID)
	if !ok {
		logger.Debug().Msg("no handler for component")
		if err := core.RespondEphemeral(s, i, notImplemented); err != nil {
			logger.Warn().Err(err).Msg("failed to answer unknown component")
		}
		return
	}

	ctx := &core.ComponentContext{Services: b.svc, Session: s, Event: i, Level: b.interactionLevel(s, i)}
	err := cmd.Run(ctx)
	if err == nil || errors.Is(err, core.ErrWrongContext) {
		return
	}
	// The handler may or may not have answered already.
	if rerr := core.RespondEphemeral(s, i, errorReply(err)); rerr != nil {
		if _, ferr := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: errorReply(err),
			Flags:   discordgo.MessageFlagsEphemeral,
		}); ferr != nil {
			logger.Warn().Err(ferr).Msg("failed to report component error")
		}
	}
}
