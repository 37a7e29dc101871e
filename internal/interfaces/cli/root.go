// Package cli реализует raictl: печать разделов дашборда и терминальный интерфейс.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dreschagin/rai-dashboard/internal/app"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const longDescription = "raictl prints the derived sections of the Responsible AI dashboard " +
	"and drives its navigation from the terminal."

// environment собирается перед запуском любой подкоманды
type environment struct {
	cfg       *config.Config
	dashboard *app.Dashboard
	printer   printer
	log       *logger.Logger
}

type rootOptions struct {
	output     string
	configFile string
	logLevel   string
}

// NewRootCommand создает корневую команду raictl со всеми подкомандами
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	env := &environment{}

	root := &cobra.Command{
		Use:           "raictl",
		Short:         "Inspect the Responsible AI dashboard from the terminal",
		Long:          longDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.init(cmd.OutOrStdout(), opts)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", string(FormatTable), "output format: table|json|yaml")
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "error", "log level written to stderr")

	root.AddCommand(
		newOverviewCommand(env),
		newSectionCommand(env),
		newESGCommand(env),
		newGuardrailsCommand(env),
		newCostHistoryCommand(env),
		newPoliciesCommand(env),
		newTUICommand(env),
	)
	return root
}

// Execute запускает raictl и возвращает код выхода
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}
	return 0
}

func (e *environment) init(out io.Writer, opts *rootOptions) error {
	format, err := ParseFormat(opts.output)
	if err != nil {
		return err
	}

	if opts.configFile != "" {
		if err := os.Setenv("RAI_CONFIG_FILE", opts.configFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	e.cfg = cfg
	e.log = logger.NewStderr(opts.logLevel)
	e.printer = printer{w: out, format: format}
	return nil
}

// build собирает дашборд в процессе. Данные статические, внешние адаптеры не нужны.
func (e *environment) build() error {
	if e.dashboard != nil {
		return nil
	}
	dashboard, err := app.Build(e.cfg, app.Deps{}, e.log)
	if err != nil {
		return err
	}
	e.dashboard = dashboard
	return nil
}
