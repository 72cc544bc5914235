package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/ebs/internal/app"
	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/results"
)

func newRecentCommand(opts *rootOptions) *cobra.Command {
	var (
		filter string
		local  bool
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent searches",
		Long: `List the most recent catalog searches.

--filter keeps the searches containing the text, ignoring case, the same
way typing in the search bar does. --local lists this machine's history
instead of the catalog's.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := validateOutput(output)
			if err != nil {
				return err
			}

			return withRuntime(cmd, opts, func(ctx context.Context, rt *app.Runtime) error {
				var searches []catalog.PreviousSearch
				if local {
					searches, err = localSearches(ctx, rt, limit)
				} else {
					searches, err = rt.Service.FetchPreviousSearches(ctx)
				}
				if err != nil {
					return fmt.Errorf("fetch recent searches: %w", err)
				}

				msgs := results.DefaultMessages()
				empty := "No recent searches."
				if filter != "" {
					searches = results.MatchPreviousSearches(filter, searches)
					empty = msgs.NoMatches
				}
				return writePreviousSearches(cmd.OutOrStdout(), format, searches, empty)
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show searches containing this text")
	cmd.Flags().BoolVar(&local, "local", false, "list the local search history")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum local entries (default previous_search_limit)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json, yaml)")
	return cmd
}

func localSearches(ctx context.Context, rt *app.Runtime, limit int) ([]catalog.PreviousSearch, error) {
	if err := rt.OpenHistory(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = rt.Config.PreviousSearchLimit
	}
	entries, err := rt.History.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	searches := make([]catalog.PreviousSearch, 0, len(entries))
	for _, e := range entries {
		searches = append(searches, e.PreviousSearch())
	}
	return searches, nil
}
