package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/search"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

func (a *App) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the text of all notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			query := strings.Join(args, " ")
			if search.IsBlank(query) {
				return fmt.Errorf("search query is empty")
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			results, err := a.client.SearchNotes(ctx, strings.TrimSpace(query))
			if err != nil {
				return err
			}
			return a.emit(results, func(w io.Writer) error {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{
						r.ID.String(),
						r.BookName + " / " + r.ChapterName,
						r.Date,
						richtext.Excerpt(richtext.PlainText(r.Content), query, listExcerpt),
					})
				}
				return printTable(w, "notes", []string{"ID", "Location", "Date", "Match"}, rows)
			})
		}),
	}
}
