package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "apexpilot",
	Short: "Oracle XE container and APEX installation assistant",
	Long: `apexpilot tracks which Docker container belongs to which project and
walks you through installing Oracle APEX and ORDS inside it.

Nothing is executed on your behalf: every flow produces the exact commands
to run, keeps them one keystroke away from the clipboard, and records the
progress you report back.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("apexpilot %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
