package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/runtime/terminal/commands"
	"github.com/de-tools/lab-costing/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	backend  commands.Backend
	reporter *export.Reporter
	source   commands.Source
	output   io.Writer
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Backend commands.Backend
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Backend == nil {
		opts.Backend = NewBackend()
	}

	cli := &CLI{
		backend:  opts.Backend,
		reporter: export.NewReporter(opts.Output),
		output:   opts.Output,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "labcost",
		Short:         "Lab test cost allocation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)
	cli.source.BindFlags(cmd)

	cmd.AddCommand(commands.NewDashboardCmd(&cli.source, cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewTestCostCmd(&cli.source, cli.backend, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(&cli.source, cli.backend))
	cmd.AddCommand(commands.NewProfilesCmd(&cli.source))

	return cmd
}
