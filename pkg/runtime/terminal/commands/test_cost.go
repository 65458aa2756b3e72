package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/adapters"
	"github.com/de-tools/lab-costing/pkg/runtime/terminal/export"
)

type TestCostCmd struct {
	id       int64
	format   string
	source   *Source
	backend  Backend
	reporter *export.Reporter
}

func NewTestCostCmd(source *Source, backend Backend, reporter *export.Reporter) *cobra.Command {
	tc := &TestCostCmd{source: source, backend: backend, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "test-cost",
		Short: "Show the cost breakdown of a single test",
		RunE:  tc.run,
	}

	cmd.Flags().Int64Var(&tc.id, "id", 0, "Test id")
	cmd.Flags().StringVar(&tc.format, "format", formatText, "Output format: text or json")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func (tc *TestCostCmd) run(cmd *cobra.Command, _ []string) error {
	if tc.id <= 0 {
		return fmt.Errorf("invalid test id: %d", tc.id)
	}
	if err := validateFormat(tc.format); err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := openDashboard(ctx, tc.backend, *tc.source)
	if err != nil {
		return err
	}
	defer closeFn()

	summary, err := svc.TestCost(ctx, tc.id)
	if err != nil {
		return fmt.Errorf("failed to cost test %d: %w", tc.id, err)
	}

	if tc.format == formatText {
		return tc.reporter.TestCost(summary)
	}

	out, err := adapters.MapTestCostSummaryDomainToApi(*summary)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
