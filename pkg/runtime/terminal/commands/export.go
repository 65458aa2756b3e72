package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/adapters"
)

type ExportCmd struct {
	bucket  string
	prefix  string
	source  *Source
	backend Backend
}

func NewExportCmd(source *Source, backend Backend) *cobra.Command {
	ec := &ExportCmd{source: source, backend: backend}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload the dashboard as JSON to an S3 bucket",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.bucket, "bucket", "", "Target bucket (default export.bucket from the config)")
	cmd.Flags().StringVar(&ec.prefix, "prefix", "", "Key prefix (default export.prefix from the config)")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	exporter, err := ec.backend.Exporter(ctx, *ec.source, ec.bucket, ec.prefix)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	svc, closeFn, err := openDashboard(ctx, ec.backend, *ec.source)
	if err != nil {
		return err
	}
	defer closeFn()

	d, err := svc.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}
	out, err := adapters.MapDashboardDomainToApi(*d)
	if err != nil {
		return err
	}

	key, err := exporter.ExportDashboard(ctx, out)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("key", key).Int("tests", len(out.Tests)).Msg("export finished")
	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard exported to %s\n", key)
	return nil
}
