package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"telegram-team-bot/internal/mood"
)

func newMoodCmd() *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "mood <text>",
		Short: "Score text against the mood table",
		Long:  "Runs the keyword and pattern scoring the bot uses to pick its mood. The LLM fallback is not called.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadMoodTable(tablePath)
			if err != nil {
				return err
			}
			m := mood.NewManager(table, nil, slog.New(slog.DiscardHandler))
			input := strings.Join(args, " ")
			label, matched := m.Detect(input)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, m.StatusPrefix(label, m.Temperature(label)))
			scores := m.Scores(input)
			for _, l := range mood.Labels {
				fmt.Fprintf(out, "  %-8s %d\n", l, scores[l])
			}
			if !matched {
				fmt.Fprintln(out, "no keyword matched, the bot would ask the classifier")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "YAML mood table overriding the built-in one")
	return cmd
}
