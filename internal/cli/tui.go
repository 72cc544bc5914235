package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/ebs/internal/app"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive search screen",
		Long: `Open the interactive search screen. This is also what ebs does when run
without a subcommand.

Keys:
  /       search          enter   run search / re-run a recent search
  esc     back to recent  tab     toggle beer / brewery
  t       cycle theme     ?       more help
  q       quit

Logs go to <log_dir>/ebs.log; view them with "ebs logs".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	return app.Run(cmd.Context(), opts.appOptions())
}
