package terminal

import (
	"io"
	"os"

	"github.com/dash-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/dash-tools/report-atlas/pkg/runtime/terminal/export"

	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	table   *export.Reporter
	console *Reporter
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		table:   export.NewReporter(opts.Output),
		console: NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report-atlas",
		Short: "Dashboard report extraction tool",
	}

	cmd.AddCommand(commands.NewParseCmd(cli.table))
	cmd.AddCommand(commands.NewScorecardsCmd(cli.console))
	cmd.AddCommand(commands.NewRunsCmd(cli.console))

	return cmd
}
