package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"robin/internal/logic"
	"robin/internal/ui/views"
)

func newPendingCmd(root *rootOptions) *cobra.Command {
	var (
		repoID int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Print the pending patches of a repository.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if repoID <= 0 {
				return &exitError{code: 1, err: errors.New("--repository is required")}
			}
			return withApp(root, true, func(a *app) error {
				page, err := a.session().LoadPending(cmd.Context(), repoID)
				if err != nil {
					if errors.Is(err, logic.ErrRejected) {
						return &exitError{code: exitRejected, err: err}
					}
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, page)
				}
				fmt.Fprintln(out, views.NewStyles().PendingTable(page.Results))
				return writeCursors(out, page.Count, page.Next, page.Previous)
			})
		},
	}

	cmd.Flags().IntVar(&repoID, "repository", 0, "repository row id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw page as JSON")
	return cmd
}
