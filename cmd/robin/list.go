package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"robin/internal/domain"
	"robin/internal/ui/views"
)

func newListCmd(root *rootOptions, c domain.Collection) *cobra.Command {
	var (
		cursor string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   string(c),
		Short: fmt.Sprintf("Print one page of %s.", c),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(root, true, func(a *app) error {
				ctx := cmd.Context()
				styles := views.NewStyles()
				out := cmd.OutOrStdout()

				switch c {
				case domain.CollectionTeams:
					page, err := a.client.Teams(ctx, cursor)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(out, page)
					}
					fmt.Fprintln(out, styles.TeamTable(page.Results))
					return writeCursors(out, page.Count, page.Next, page.Previous)
				default:
					page, err := a.client.Repositories(ctx, cursor)
					if err != nil {
						return err
					}
					if asJSON {
						return writeJSON(out, page)
					}
					fmt.Fprintln(out, styles.RepositoryTable(page.Results))
					return writeCursors(out, page.Count, page.Next, page.Previous)
				}
			})
		},
	}

	if c == domain.CollectionRepositories {
		cmd.Aliases = []string{"repos"}
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "page URL returned as next or previous by an earlier call")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw page as JSON")
	return cmd
}

func writeCursors(w io.Writer, count int, next, prev string) error {
	if _, err := fmt.Fprintf(w, "total: %d\n", count); err != nil {
		return err
	}
	if next != "" {
		if _, err := fmt.Fprintf(w, "next: %s\n", next); err != nil {
			return err
		}
	}
	if prev != "" {
		if _, err := fmt.Fprintf(w, "previous: %s\n", prev); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
