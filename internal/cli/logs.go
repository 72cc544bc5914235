package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/ebs/internal/config"
	"github.com/five82/ebs/internal/logtail"
)

func newLogsCommand(opts *rootOptions) *cobra.Command {
	var (
		lines   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the ebs log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			path := cfg.LogPath()
			tail, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			if len(tail) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no log entries in %s\n", path)
				return nil
			}
			if !noColor {
				tail = logtail.ColorizeLines(tail)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tail, "\n"))
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
