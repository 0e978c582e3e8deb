package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"telegram-team-bot/internal/config"
	"telegram-team-bot/internal/handlers"
)

var errJiraDisabled = errors.New("jira is not configured: set JIRA_SERVER, JIRA_EMAIL, JIRA_API_TOKEN and JIRA_PROJECT_KEY")

func newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Print the project's TO DO digest",
		Long:  "Fetches the TO DO issues of the Jira project and prints the digest the bot posts to the channel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newJira(config.Load())
			if err != nil {
				return err
			}
			if client == nil {
				return errJiraDisabled
			}
			body, err := handlers.RenderDigest(cmd.Context(), client)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}
