package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"robin/internal/domain"
	"robin/internal/logic"
	"robin/internal/ui/views"
)

type statsOptions struct {
	repositoryID int
	team         string
	start        string
	end          string
	statsType    int
	asJSON       bool
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Query closed patch statistics for a repository and team.",
		Long: "Selects the repository and team, fills the date range and submits the\n" +
			"closed patch query the same way the interactive form does.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.repositoryID <= 0 || opts.team == "" {
				return &exitError{code: 1, err: errors.New("--repository-id and --team are required")}
			}
			return withApp(root, true, func(a *app) error {
				return runStats(cmd, a, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.repositoryID, "repository-id", 0, "upstream repository id")
	flags.StringVar(&opts.team, "team", "", "team code")
	flags.StringVar(&opts.start, "start", "", "start date YYYY-MM-DD (default today)")
	flags.StringVar(&opts.end, "end", "", "end date YYYY-MM-DD (default today)")
	flags.IntVar(&opts.statsType, "stats-type", 0, "1 for member stats, 2 for team stats (default from config)")
	flags.BoolVar(&opts.asJSON, "json", false, "print the raw response body")
	return cmd
}

func runStats(cmd *cobra.Command, a *app, opts *statsOptions) error {
	ctx := cmd.Context()
	s := a.session()

	if err := s.LoadInitial(ctx); err != nil {
		return err
	}
	if err := s.Locate(ctx, opts.repositoryID, opts.team); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			return &exitError{code: exitNotFound, err: err}
		}
		return err
	}

	res, err := s.RunQuery(ctx, logic.QueryParams{
		BeginDate: opts.start,
		EndDate:   opts.end,
		StatsType: domain.StatsType(opts.statsType),
	})
	if err != nil {
		if errors.Is(err, logic.ErrRejected) {
			return &exitError{code: exitRejected, err: err}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON || len(res.Patches.Results) == 0 {
		_, err := fmt.Fprintln(out, string(res.Raw))
		return err
	}
	fmt.Fprintln(out, views.NewStyles().PatchTable(res.Patches.Results))
	_, err = fmt.Fprintf(out, "total: %d\n", res.Patches.Count)
	return err
}
