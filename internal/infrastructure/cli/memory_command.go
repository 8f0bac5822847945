package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/nlsh/internal/app"
)

func newMemoryCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Manage persistent labeled notes",
	}

	save := &cobra.Command{
		Use:   "save <label> <content...>",
		Short: "Save a note under a label (overwrites an existing label)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := args[0]
			content := strings.Join(args[1:], " ")
			if err := container.Session.Remember(label, content); err != nil {
				return fmt.Errorf("save memory: %w", err)
			}
			fmt.Printf("Saved %q.\n", label)
			return nil
		},
	}

	recall := &cobra.Command{
		Use:   "recall <label>",
		Short: "Print the note stored under a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok, err := container.Session.Recall(args[0])
			if err != nil {
				return fmt.Errorf("recall memory: %w", err)
			}
			if !ok {
				return fmt.Errorf("no memory saved under %q", args[0])
			}
			fmt.Println(entry.Content)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "List all saved notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Session.AllMemory()
			if err != nil {
				return fmt.Errorf("list memory: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No memories saved.")
				return nil
			}
			for _, entry := range entries {
				fmt.Printf("%s: %s\n", entry.Label, entry.Content)
			}
			return nil
		},
	}

	cmd.AddCommand(save, recall, show)
	return cmd
}
