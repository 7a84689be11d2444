package core

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite:    "Create Instant Invite",
	discordgo.PermissionKickMembers:            "Kick Members",
	discordgo.PermissionBanMembers:             "Ban Members",
	discordgo.PermissionAdministrator:          "Administrator",
	discordgo.PermissionManageChannels:         "Manage Channels",
	discordgo.PermissionManageGuild:            "Manage Server",
	discordgo.PermissionAddReactions:           "Add Reactions",
	discordgo.PermissionViewAuditLogs:          "View Audit Logs",
	discordgo.PermissionViewChannel:            "View Channel",
	discordgo.PermissionSendMessages:           "Send Messages",
	discordgo.PermissionSendTTSMessages:        "Send TTS Messages",
	discordgo.PermissionManageMessages:         "Manage Messages",
	discordgo.PermissionEmbedLinks:             "Embed Links",
	discordgo.PermissionAttachFiles:            "Attach Files",
	discordgo.PermissionReadMessageHistory:     "Read Message History",
	discordgo.PermissionMentionEveryone:        "Mention Everyone",
	discordgo.PermissionUseExternalEmojis:      "Use External Emojis",
	discordgo.PermissionUseApplicationCommands: "Use Application Commands",
	discordgo.PermissionManageThreads:          "Manage Threads",
	discordgo.PermissionCreatePublicThreads:    "Create Public Threads",
	discordgo.PermissionCreatePrivateThreads:   "Create Private Threads",
	discordgo.PermissionUseExternalStickers:    "Use External Stickers",
	discordgo.PermissionSendMessagesInThreads:  "Send Messages in Threads",
	discordgo.PermissionChangeNickname:         "Change Nickname",
	discordgo.PermissionManageNicknames:        "Manage Nicknames",
	discordgo.PermissionManageRoles:            "Manage Roles",
	discordgo.PermissionManageWebhooks:         "Manage Webhooks",
	discordgo.PermissionManageEvents:           "Manage Events",
	discordgo.PermissionViewGuildInsights:      "View Guild Insights",
	discordgo.PermissionModerateMembers:        "Moderate Members",
}

func PermissionName(p int64) string {
	if name, ok := PermissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", p)
}

// MissingPermissions returns the names of the required permissions absent
// from have. Administrator implies everything.
func MissingPermissions(have int64, required []int64) []string {
	if have&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	var missing []string
	for _, p := range required {
		if have&p != p {
			missing = append(missing, PermissionName(p))
		}
	}
	return missing
}

// MissingPermissionsMessage renders the reply listing what the user and the
// bot lack. Both lists may be empty.
func MissingPermissionsMessage(user, bot []string) string {
	lines := []string{":x: The command could not be preformed because one or more permissions are missing."}

	section := func(title string, names []string) {
		if len(names) == 0 {
			return
		}
		lines = append(lines, title)
		for _, n := range names {
			lines = append(lines, "> `"+n+"`")
		}
		lines = append(lines, "**Required**: `"+strings.Join(names, "`, `")+"`")
	}
	section("You are missing:", user)
	section("I am missing:", bot)

	return strings.Join(lines, "\n")
}

// WithPermissionCheck requires the caller to hold every UserPermissions entry
// and the bot every BotPermissions entry in the invoking channel. Outside a
// guild nothing is checked.
func WithPermissionCheck() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				inv, ok := invocationOf(ctx)
				if !ok || inv.guildID == "" || inv.services == nil || inv.services.Perms == nil {
					return cmd.Run(ctx)
				}
				perms := inv.services.Perms

				var userMissing, botMissing []string

				if required := cmd.UserPermissions(); len(required) > 0 && inv.level < LevelOwner {
					have, err := perms.UserChannelPermissions(inv.userID, inv.channelID)
					if err != nil {
						return fmt.Errorf("failed to get user permissions: %w", err)
					}
					userMissing = MissingPermissions(have, required)
				}

				if required := cmd.BotPermissions(); len(required) > 0 && inv.services.Control != nil {
					have, err := perms.UserChannelPermissions(inv.services.Control.BotID(), inv.channelID)
					if err != nil {
						return fmt.Errorf("failed to get bot permissions: %w", err)
					}
					botMissing = MissingPermissions(have, required)
				}

				if len(userMissing) > 0 || len(botMissing) > 0 {
					return NewUserError(MissingPermissionsMessage(userMissing, botMissing))
				}
				return cmd.Run(ctx)
			},
		}
	}
}
