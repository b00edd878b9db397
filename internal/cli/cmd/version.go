package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), formatVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func formatVersion() string {
	v := buildInfo.Version
	if v == "" {
		v = "dev"
	}
	out := "arkium " + v
	if buildInfo.Commit != "" {
		out += " (" + buildInfo.Commit + ")"
	}
	if buildInfo.BuildDate != "" {
		out += " built " + buildInfo.BuildDate
	}
	if buildInfo.GoVersion != "" {
		out += " with " + buildInfo.GoVersion
	}
	return out
}
