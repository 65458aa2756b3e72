package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/logging"
	"github.com/de-tools/lab-costing/pkg/metrics"
	"github.com/de-tools/lab-costing/pkg/server"
	"github.com/de-tools/lab-costing/pkg/services/config"
	"github.com/de-tools/lab-costing/pkg/services/dashboard"
	"github.com/de-tools/lab-costing/pkg/store/postgres"
	"github.com/de-tools/lab-costing/pkg/store/postgres/catalog"
	"github.com/de-tools/lab-costing/pkg/store/postgres/labtest"
)

var (
	cfgPath      string
	profile      string
	profilesFile string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for lab test costing",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Database profile to connect with")
	rootCmd.Flags().StringVar(&profilesFile, "profiles-file", "",
		"Path to the database profiles file (default is $HOME/.labcost.ini)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	dsn, err := cfg.Database.ResolveDSN(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve database connection: %w", err)
	}
	db, err := postgres.NewDB(ctx, postgres.Settings{
		DSN:             dsn,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	catalogStore, err := catalog.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create catalog store: %w", err)
	}
	testStore, err := labtest.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create test store: %w", err)
	}

	m := metrics.New()
	dashboardService := dashboard.NewService(catalogStore, testStore, dashboard.Config{
		AllocationMode:    cfg.Costing.Mode(),
		PlaceholderTotals: cfg.Costing.PlaceholderTotals,
	}, dashboard.WithRecorder(m))

	logger.Info().
		Str("allocation_mode", cfg.Costing.AllocationMode).
		Bool("placeholder_totals", cfg.Costing.PlaceholderTotals).
		Msg("dashboard service configured")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RequestTimeout:  cfg.Server.RequestTimeout,
		Dependencies: server.Dependencies{
			Dashboard: dashboardService,
			Metrics:   m,
			Logger:    logger,
		},
	})
	return api.Start()
}

// applyOverrides lets flags and the SERVER_HOST/SERVER_PORT variables of a
// .env file take precedence over the config file.
func applyOverrides(cfg *config.Config) {
	if profile != "" {
		cfg.Database.DSN = ""
		cfg.Database.Profile = profile
	}
	if profilesFile != "" {
		cfg.Database.ProfilesFile = profilesFile
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil && port > 0 {
		cfg.Server.Port = port
	}
}
