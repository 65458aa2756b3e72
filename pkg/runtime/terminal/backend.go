package terminal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/lab-costing/pkg/runtime/terminal/commands"
	"github.com/de-tools/lab-costing/pkg/runtime/terminal/export"
	"github.com/de-tools/lab-costing/pkg/services/config"
	"github.com/de-tools/lab-costing/pkg/services/dashboard"
	"github.com/de-tools/lab-costing/pkg/store/file"
	"github.com/de-tools/lab-costing/pkg/store/postgres"
	"github.com/de-tools/lab-costing/pkg/store/postgres/catalog"
	"github.com/de-tools/lab-costing/pkg/store/postgres/labtest"
)

type backend struct{}

// NewBackend returns the backend used by the labcost binary: PostgreSQL or a
// JSON data file for the data, S3 for exports.
func NewBackend() commands.Backend {
	return backend{}
}

func loadConfig(src commands.Source) (*config.Config, error) {
	cfg, err := config.Load(src.ConfigPath)
	if err != nil {
		return nil, err
	}
	if src.Profile != "" {
		cfg.Database.DSN = ""
		cfg.Database.Profile = src.Profile
	}
	if src.ProfilesFile != "" {
		cfg.Database.ProfilesFile = src.ProfilesFile
	}
	if src.Mode != "" {
		cfg.Costing.AllocationMode = src.Mode
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (backend) Dashboard(ctx context.Context, src commands.Source) (dashboard.Service, func() error, error) {
	cfg, err := loadConfig(src)
	if err != nil {
		return nil, nil, err
	}
	costing := dashboard.Config{
		AllocationMode:    cfg.Costing.Mode(),
		PlaceholderTotals: cfg.Costing.PlaceholderTotals,
	}

	switch src.Kind {
	case commands.SourceFile:
		st, err := file.Open(src.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return dashboard.NewService(st, st, costing), nil, nil
	case commands.SourcePostgres:
		return openPostgres(ctx, cfg, costing)
	default:
		return nil, nil, fmt.Errorf("unknown source %q", src.Kind)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, costing dashboard.Config) (dashboard.Service, func() error, error) {
	dsn, err := cfg.Database.ResolveDSN(ctx)
	if err != nil {
		return nil, nil, err
	}

	db, err := postgres.NewDB(ctx, postgres.Settings{
		DSN:             dsn,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	catalogStore, err := catalog.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create catalog store: %w", err)
	}
	testStore, err := labtest.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create test store: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("mode", string(costing.AllocationMode)).Msg("connected to postgres")
	return dashboard.NewService(catalogStore, testStore, costing), db.Close, nil
}

func (backend) Exporter(ctx context.Context, src commands.Source, bucket, prefix string) (commands.Exporter, error) {
	cfg, err := loadConfig(src)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = cfg.Export.Bucket
	}
	if prefix == "" {
		prefix = cfg.Export.Prefix
	}

	client, err := export.NewS3Client(ctx, export.S3Config{
		Region:          cfg.Export.Region,
		Endpoint:        cfg.Export.Endpoint,
		AccessKeyID:     cfg.Export.AccessKeyID,
		SecretAccessKey: cfg.Export.SecretAccessKey,
		UsePathStyle:    cfg.Export.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewS3Exporter(client, bucket, prefix)
	if err != nil {
		return nil, err
	}
	return exporter, nil
}
