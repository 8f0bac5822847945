// Package cli exposes the cobra command tree.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/nlsh/internal/app"
	"github.com/doeshing/nlsh/internal/domain"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. A bare invocation with arguments
// is treated as an ask.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Orchestrator.Prompter = NewPrompter(nil, nil)
	container.Orchestrator.NewClient = withSpinner(container.Orchestrator.NewClient)

	askCmd := newAskCommand(container)

	root := &cobra.Command{
		Use:   "nlsh [request]",
		Short: "nlsh - natural language shell assistant",
		Long:  "nlsh turns plain-English requests into shell commands, with safety classification gating every execution.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			askCmd.SetArgs(args)
			return askCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(askCmd)
	root.AddCommand(newMemoryCommand(container))
	root.AddCommand(newHistoryCommand(container))
	return root, nil
}

func newAskCommand(container *app.Container) *cobra.Command {
	var (
		model       string
		autoExecute bool
		interactive bool
		debug       bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask [natural language]",
		Short: "Answer a natural-language request with a shell command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if debug {
				container.Logger.SetVerbose(true)
			}
			result, err := container.Orchestrator.Respond(domain.TurnRequest{
				Context:          ctx,
				Input:            strings.Join(args, " "),
				ModelOverride:    model,
				AutoExecute:      autoExecute,
				ForceInteractive: interactive,
			})
			if err != nil {
				return err
			}
			RenderTurn(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVarP(&autoExecute, "auto-execute", "a", false, "Run auto-approved commands without asking (riskier verdicts still prompt)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Force the command to run on a pseudo-terminal")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging for this request")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall turn timeout (0 uses per-command timeout only)")

	return cmd
}
