package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/nlsh/internal/app"
)

func newHistoryCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
		clear  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past turns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := container.HistoryStore.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Println("History cleared.")
				return nil
			}

			records, err := container.HistoryStore.Records(limit, search)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No history yet.")
				return nil
			}
			for _, record := range records {
				marker := " "
				if record.Executed {
					marker = "*"
				}
				fmt.Printf("%s %s  %q", marker, humanize.Time(record.Timestamp), record.Input)
				if record.Command != "" && record.Command != record.Input {
					fmt.Printf(" -> %s", record.Command)
				}
				if record.Executed && record.ExitCode != 0 {
					fmt.Printf(" (exit %d)", record.ExitCode)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by substring of input or command")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all history entries")

	return cmd
}
