package main

import (
	"fmt"
	"strings"

	"github.com/keshon/support-bot/internal/core"
	"github.com/spf13/cobra"
)

var deployFlags struct {
	scope string
	guild string
	reset bool
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the slash commands without starting the bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		guildID, err := deployGuild(deployFlags.scope, deployFlags.guild)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.bot.DeployOffline(cmd.Context(), guildID, deployFlags.reset)
		if err != nil {
			return err
		}

		target := "globally"
		if guildID != "" {
			target = "to guild " + guildID
		}
		if deployFlags.reset {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed all slash commands %s.\n", target)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deployed %d %s %s.\n", n, core.Plural(n, "command", "commands"), target)
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployFlags.scope, "scope", "guild", "where to deploy: guild or global")
	deployCmd.Flags().StringVar(&deployFlags.guild, "guild", "", "guild id, required with --scope guild")
	deployCmd.Flags().BoolVar(&deployFlags.reset, "reset", false, "remove the commands instead")
}

// deployGuild validates the flags; an empty id means the global scope.
func deployGuild(scope, guild string) (string, error) {
	switch strings.ToLower(scope) {
	case "global":
		if guild != "" {
			return "", fmt.Errorf("--guild cannot be used with --scope global")
		}
		return "", nil
	case "guild":
		if guild == "" {
			return "", fmt.Errorf("--guild is required with --scope guild")
		}
		return guild, nil
	default:
		return "", fmt.Errorf("unknown scope %q, use guild or global", scope)
	}
}
