package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/ebs/internal/fixture"
	"github.com/five82/ebs/internal/logging"
)

const fixtureShutdownTimeout = 5 * time.Second

func newFixturesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with the local fixture catalog",
		Long: `The fixture catalog answers the same two endpoints as the real API from a
YAML file, which is handy for development without network access:

  ebs fixtures serve --addr :8080 &
  EBS_API_URL=http://localhost:8080 ebs`,
	}
	cmd.AddCommand(newFixturesServeCommand(opts))
	cmd.AddCommand(newFixturesShowCommand())
	return cmd
}

func newFixturesServeCommand(opts *rootOptions) *cobra.Command {
	var (
		addr string
		file string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fixture catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixtures(file)
			if err != nil {
				return err
			}

			level := "info"
			if opts.verbose {
				level = "debug"
			}
			logger := logging.New(cmd.ErrOrStderr(), logging.Config{Level: level})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			srv := fixture.NewServer(f, logger)
			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(addr)
			}()
			logger.Info("fixture catalog listening",
				"addr", addr,
				"previous_searches", len(f.PreviousSearches),
				"beers", len(f.Beers),
			)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down fixture catalog")
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fixtureShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures YAML file (default built-in Mock/Mack catalog)")
	return cmd
}

func newFixturesShowCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the fixture catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixtures(file)
			if err != nil {
				return err
			}
			return writeStructured(cmd.OutOrStdout(), outputYAML, f)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures YAML file (default built-in Mock/Mack catalog)")
	return cmd
}

func loadFixtures(file string) (fixture.Fixtures, error) {
	if file == "" {
		return fixture.Default(), nil
	}
	return fixture.Load(file)
}
