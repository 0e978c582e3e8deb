// Package cli holds the bot's command line: the root command runs the bot,
// subcommands expose the Jira digest and the mood table offline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bot",
		Short:         "Telegram team assistant",
		Long:          "Telegram bot that keeps chat history, answers mentions with an LLM and works with Jira tasks.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd)
		},
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newMoodCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bot %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}
