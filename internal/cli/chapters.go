package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

func (a *App) chaptersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chapters",
		Aliases: []string{"chapter"},
		Short:   "Manage the chapters of a book",
	}

	list := &cobra.Command{
		Use:   "list BOOK_ID",
		Short: "List the chapters of a book, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			chapters, err := a.client.ListChapters(ctx, api.ID(args[0]))
			if err != nil {
				return err
			}
			return a.emit(chapters, func(w io.Writer) error {
				rows := make([][]string, 0, len(chapters))
				for _, c := range chapters {
					rows = append(rows, []string{c.ID.String(), c.Name, c.Date})
				}
				return printTable(w, "chapters", []string{"ID", "Name", "Date"}, rows)
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create BOOK_ID NAME",
		Short: "Add a chapter dated today",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			chapter, err := a.client.CreateChapter(ctx, api.ID(args[0]), args[1])
			if err != nil {
				return err
			}
			return a.emit(chapter, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created chapter %q (%s) dated %s\n", chapter.Name, chapter.ID, chapter.Date)
				return err
			})
		}),
	}

	rename := &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a chapter",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			chapter, err := a.client.UpdateChapter(ctx, api.ID(args[0]), args[1])
			if err != nil {
				return err
			}
			return a.emit(chapter, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Renamed chapter %s to %q\n", chapter.ID, chapter.Name)
				return err
			})
		}),
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a chapter with its notes",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			id := api.ID(args[0])
			chapter, err := a.client.GetChapter(ctx, id)
			if err != nil {
				return err
			}
			if ok, err := a.confirm(yes, fmt.Sprintf("Delete chapter %q with all its notes?", chapter.Name)); !ok || err != nil {
				return err
			}
			if err := a.client.DeleteChapter(ctx, id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.opts.Out, "Deleted chapter %q\n", chapter.Name)
			return err
		}),
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, rename, del)
	return cmd
}
