package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the bot",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func versionString() string {
	s := "support-bot " + version
	if commit != "" {
		s += " commit=" + commit
	}
	if buildDate != "" {
		s += " built=" + buildDate
	}
	return s + " " + runtime.Version()
}
