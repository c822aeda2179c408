package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

const dateLayout = "2006-01-02 15:04"

func (a *App) booksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book"},
		Short:   "Manage books",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List books with their note counts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			books, err := a.client.ListBooks(ctx)
			if err != nil {
				return err
			}
			return a.emit(books, func(w io.Writer) error {
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					rows = append(rows, []string{b.ID.String(), b.Name, strconv.Itoa(b.NoteCount), b.UpdatedAt.Local().Format(dateLayout)})
				}
				return printTable(w, "books", []string{"ID", "Name", "Notes", "Updated"}, rows)
			})
		}),
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a book",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			book, err := a.client.CreateBook(ctx, args[0])
			if err != nil {
				return err
			}
			return a.emit(book, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created book %q (%s)\n", book.Name, book.ID)
				return err
			})
		}),
	}

	rename := &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a book",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			book, err := a.client.UpdateBook(ctx, api.ID(args[0]), args[1])
			if err != nil {
				return err
			}
			return a.emit(book, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Renamed book %s to %q\n", book.ID, book.Name)
				return err
			})
		}),
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a book with its chapters and notes",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			id := api.ID(args[0])
			book, err := a.client.GetBook(ctx, id)
			if err != nil {
				return err
			}
			if ok, err := a.confirm(yes, fmt.Sprintf("Delete book %q with all its chapters and notes?", book.Name)); !ok || err != nil {
				return err
			}
			if err := a.client.DeleteBook(ctx, id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.opts.Out, "Deleted book %q\n", book.Name)
			return err
		}),
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, rename, del)
	return cmd
}

// confirm asks unless skip is set. A declined prompt prints "Cancelled".
func (a *App) confirm(skip bool, question string) (bool, error) {
	if skip {
		return true, nil
	}
	ok, err := a.prompter().Confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(a.opts.Out, "Cancelled")
	}
	return ok, nil
}
