package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

const listExcerpt = 60

func (a *App) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage the notes of a chapter",
	}

	list := &cobra.Command{
		Use:   "list CHAPTER_ID",
		Short: "List the notes of a chapter, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			notes, err := a.client.ListNotes(ctx, api.ID(args[0]))
			if err != nil {
				return err
			}
			return a.emit(notes, func(w io.Writer) error {
				rows := make([][]string, 0, len(notes))
				for _, n := range notes {
					rows = append(rows, []string{n.ID.String(), n.Date, richtext.Excerpt(richtext.PlainText(n.Content), "", listExcerpt)})
				}
				return printTable(w, "notes", []string{"ID", "Date", "Text"}, rows)
			})
		}),
	}

	var raw bool
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print a note as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			note, err := a.client.GetNote(ctx, api.ID(args[0]))
			if err != nil {
				return err
			}
			return a.emit(note, func(w io.Writer) error {
				if raw {
					_, err := fmt.Fprintln(w, note.Content)
					return err
				}
				md, err := richtext.Markdown(note.Content)
				if err != nil {
					md = richtext.PlainText(note.Content)
				}
				_, err = fmt.Fprintf(w, "%s\n\n%s\n", note.Date, md)
				return err
			})
		}),
	}
	show.Flags().BoolVar(&raw, "html", false, "print the stored HTML")

	var createHTML bool
	create := &cobra.Command{
		Use:   "create CHAPTER_ID [TEXT]",
		Short: "Add a note to a chapter",
		Long:  "Add a note to a chapter. Without TEXT the note is read from stdin.\nEach line becomes a paragraph unless --html is given.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			content, err := a.noteContent(args[1:], createHTML)
			if err != nil {
				return err
			}
			note, err := a.client.CreateNote(ctx, api.ID(args[0]), content)
			if err != nil {
				return err
			}
			return a.emit(note, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created note %s\n", note.ID)
				return err
			})
		}),
	}
	create.Flags().BoolVar(&createHTML, "html", false, "treat the input as HTML")

	var editHTML bool
	edit := &cobra.Command{
		Use:   "edit ID [TEXT]",
		Short: "Replace the content of a note",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			content, err := a.noteContent(args[1:], editHTML)
			if err != nil {
				return err
			}
			note, err := a.client.UpdateNote(ctx, api.ID(args[0]), content)
			if err != nil {
				return err
			}
			return a.emit(note, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated note %s\n", note.ID)
				return err
			})
		}),
	}
	edit.Flags().BoolVar(&editHTML, "html", false, "treat the input as HTML")

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			if ok, err := a.confirm(yes, "Delete this note?"); !ok || err != nil {
				return err
			}
			if err := a.client.DeleteNote(ctx, api.ID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.opts.Out, "Deleted note", args[0])
			return err
		}),
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, show, create, edit, del, a.formatCommand())
	return cmd
}

// noteContent returns the HTML to store from an argument or stdin.
func (a *App) noteContent(args []string, isHTML bool) (string, error) {
	var text string
	if len(args) > 0 {
		text = args[0]
	} else {
		data, err := io.ReadAll(a.opts.In)
		if err != nil {
			return "", fmt.Errorf("failed to read the note: %w", err)
		}
		text = string(data)
	}
	if isHTML {
		if strings.TrimSpace(richtext.PlainText(text)) == "" {
			return "", errors.New("note is empty")
		}
		return text, nil
	}
	doc := richtext.FromPlainText(text)
	if doc.IsEmpty() {
		return "", errors.New("note is empty")
	}
	return doc.HTML(), nil
}
