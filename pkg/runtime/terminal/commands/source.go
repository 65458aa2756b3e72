package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/api"
	"github.com/de-tools/lab-costing/pkg/services/dashboard"
)

const (
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

// Source selects where the catalog and the tests are read from. It is bound
// to the persistent flags of the root command.
type Source struct {
	Kind         string
	DataPath     string
	ConfigPath   string
	Profile      string
	ProfilesFile string
	Mode         string
}

func (s *Source) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&s.Kind, "source", SourcePostgres, "Data source: postgres or file")
	flags.StringVar(&s.DataPath, "data", "", "Path to the JSON data file (file source)")
	flags.StringVarP(&s.ConfigPath, "config", "c", "", "Path to the YAML configuration file")
	flags.StringVar(&s.Profile, "profile", "", "Database profile to connect with")
	flags.StringVar(&s.ProfilesFile, "profiles-file", "", "Path to the database profiles file (default $HOME/.labcost.ini)")
	flags.StringVar(&s.Mode, "mode", "", "Instrument allocation mode: flat or proportional")
}

func (s Source) Validate() error {
	switch s.Kind {
	case SourcePostgres:
	case SourceFile:
		if s.DataPath == "" {
			return apperrors.NewValidationError("--data is required for the file source")
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown source %q: expected postgres or file", s.Kind))
	}
	return nil
}

// Backend opens the services the commands run against. The returned close
// function releases the underlying connections.
type Backend interface {
	Dashboard(ctx context.Context, src Source) (dashboard.Service, func() error, error)
	Exporter(ctx context.Context, src Source, bucket, prefix string) (Exporter, error)
}

type Exporter interface {
	ExportDashboard(ctx context.Context, dashboard api.Dashboard) (string, error)
}

func openDashboard(ctx context.Context, backend Backend, src Source) (dashboard.Service, func() error, error) {
	if err := src.Validate(); err != nil {
		return nil, nil, err
	}
	svc, closeFn, err := backend.Dashboard(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s source: %w", src.Kind, err)
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return svc, closeFn, nil
}
