package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

func newOverviewCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the overview section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.printSection(cmd, valueobject.SectionOverview)
		},
	}
}

func newSectionCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:       "section <name>",
		Short:     "Print any dashboard section",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := valueobject.ParseSection(args[0])
			if err != nil {
				return fmt.Errorf("%w (expected one of %v)", err, sectionNames())
			}
			return env.printSection(cmd, section)
		},
	}
}

func newESGCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "esg",
		Short: "Print the ESG report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.build(); err != nil {
				return err
			}
			report, err := env.dashboard.ESG.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return env.printer.print(report, func() string { return renderESG(*report) })
		},
	}
}

func newGuardrailsCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "guardrails",
		Short: "Print guardrail stats and effectiveness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.build(); err != nil {
				return err
			}
			page, err := env.dashboard.Guardrails.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return env.printer.print(page, func() string { return renderGuardrails(page) })
		},
	}
}

func newCostHistoryCommand(env *environment) *cobra.Command {
	var samples int
	cmd := &cobra.Command{
		Use:   "cost-history",
		Short: "Generate a synthetic cost history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.build(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("samples") {
				samples = env.cfg.Dashboard.CostHistorySamples
			}
			points, err := env.dashboard.CostHistory.Execute(cmd.Context(), samples)
			if err != nil {
				return err
			}
			return env.printer.print(points, func() string { return renderCostHistory(points) })
		},
	}
	cmd.Flags().IntVarP(&samples, "samples", "n", 20, "number of samples")
	return cmd
}

func newPoliciesCommand(env *environment) *cobra.Command {
	var policyType, region string
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List policy cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typeFilter, typeErr := valueobject.ParsePolicyTypeFilter(policyType)
			regionFilter, regionErr := valueobject.ParseRegionFilter(region)
			if err := errors.Join(typeErr, regionErr); err != nil {
				return err
			}
			if err := env.build(); err != nil {
				return err
			}
			policies, err := env.dashboard.Policies.Execute(cmd.Context(), typeFilter, regionFilter)
			if err != nil {
				return err
			}
			return env.printer.print(policies, func() string { return renderPolicies(policies) })
		},
	}
	cmd.Flags().StringVar(&policyType, "type", "all", "policy type: all|internal|regulatory")
	cmd.Flags().StringVar(&region, "region", "all", "region: all|USA|Europe")
	return cmd
}

func (e *environment) printSection(cmd *cobra.Command, section valueobject.DashboardSection) error {
	if err := e.build(); err != nil {
		return err
	}
	page, err := e.dashboard.Pages.Execute(cmd.Context(), section)
	if err != nil {
		return err
	}
	return e.printer.print(page, func() string { return renderPage(page) })
}

func sectionNames() []string {
	sections := valueobject.AllSections()
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.String())
	}
	return names
}
