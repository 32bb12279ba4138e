package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/voco/internal/app"
	"github.com/doeshing/voco/internal/domain"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			renderDoctorReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func newConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect VOCO configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, container)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, container)
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.ConfigLoader.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, validateCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigLoader.Load(cmd.Context())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the command audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, container, domain.DefaultHistoryLimit)
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent command proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, container, limit)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "Maximum entries to show")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("history is disabled in configuration")
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, clearCmd)
	return historyCmd
}

func runHistoryList(cmd *cobra.Command, container *app.Container, limit int) error {
	if container.HistoryStore == nil {
		return fmt.Errorf("history is disabled in configuration")
	}
	records, err := container.HistoryStore.List(limit)
	if err != nil {
		return err
	}
	renderHistory(cmd.OutOrStdout(), records)
	return nil
}

// newCheckCommand evaluates a command against the guardrail without running
// it; useful for tuning custom rules.
func newCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Evaluate a shell command against the guardrail rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Guardrail == nil {
				return fmt.Errorf("guardrail is disabled in configuration")
			}
			command := strings.Join(args, " ")
			assessment, err := container.Guardrail.Evaluate(command)
			if err != nil {
				return err
			}
			renderRiskAssessment(cmd.OutOrStdout(), command, assessment)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "voco %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
