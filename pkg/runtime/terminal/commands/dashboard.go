package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/adapters"
	"github.com/de-tools/lab-costing/pkg/runtime/terminal/export"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type DashboardCmd struct {
	format   string
	source   *Source
	backend  Backend
	reporter *export.Reporter
}

func NewDashboardCmd(source *Source, backend Backend, reporter *export.Reporter) *cobra.Command {
	dc := &DashboardCmd{source: source, backend: backend, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog counts and the cost breakdown of every test",
		RunE:  dc.run,
	}

	cmd.Flags().StringVar(&dc.format, "format", formatText, "Output format: text or json")

	return cmd
}

func (dc *DashboardCmd) run(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(dc.format); err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := openDashboard(ctx, dc.backend, *dc.source)
	if err != nil {
		return err
	}
	defer closeFn()

	d, err := svc.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}

	if dc.format == formatText {
		return dc.reporter.Dashboard(d)
	}

	out, err := adapters.MapDashboardDomainToApi(*d)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func validateFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unsupported format %q: expected text or json", format)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
