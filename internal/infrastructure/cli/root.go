// Package cli wires the cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/voco/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd builds the root command. Running voco with no subcommand starts
// the voice session loop.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "voco",
		Short: "VOCO - voice-driven desktop assistant",
		Long: "VOCO listens for speech, answers conversational questions, and turns\n" +
			"command requests into shell commands that run only after two spoken\n" +
			"confirmations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer container.Close()
			return container.SessionService.Run(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListenCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newCheckCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newListenCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Start the voice session loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer container.Close()
			return container.SessionService.Run(cmd.Context())
		},
	}
}
