package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/ebs/internal/app"
	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/prefs"
)

func newSearchCommand(opts *rootOptions) *cobra.Command {
	var (
		kind   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search the catalog once and print the results",
		Long: `Search the catalog for beers or breweries and print the results.

The scope defaults to the one remembered in the preferences file.

Examples:
  ebs search hazy ipa
  ebs search --kind brewery "mock brewing"
  ebs search --output json porter`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := validateOutput(output)
			if err != nil {
				return err
			}

			searchKind, err := resolveKind(cmd, kind, opts.prefsPath)
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query is empty")
			}

			return withRuntime(cmd, opts, func(ctx context.Context, rt *app.Runtime) error {
				beers, err := rt.Service.Search(ctx, query, searchKind)
				if err != nil {
					return fmt.Errorf("search %q: %w", query, err)
				}
				return writeBeers(cmd.OutOrStdout(), format, beers)
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "search scope (beer, brewery)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json, yaml)")
	return cmd
}

// resolveKind parses --kind, falling back to the remembered scope.
func resolveKind(cmd *cobra.Command, kind, prefsPath string) (catalog.SearchKind, error) {
	if cmd.Flags().Changed("kind") {
		return catalog.ParseSearchKind(kind)
	}
	p, _ := prefs.Load(prefsPath)
	return p.Kind(), nil
}

// withRuntime builds an app runtime that logs to stderr and closes it when fn
// returns.
func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *app.Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	appOpts := opts.appOptions()
	appOpts.LogWriter = cmd.ErrOrStderr()
	rt, err := app.Setup(ctx, appOpts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.WithoutCancel(ctx)) }()

	return fn(ctx, rt)
}
