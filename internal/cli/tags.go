package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

func (a *App) tagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, _ []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			tags, err := a.client.ListTags(ctx)
			if err != nil {
				return err
			}
			return a.emit(tags, func(w io.Writer) error {
				rows := make([][]string, 0, len(tags))
				for _, t := range tags {
					rows = append(rows, []string{t.ID.String(), t.Name, t.Color})
				}
				return printTable(w, "tags", []string{"ID", "Name", "Color"}, rows)
			})
		}),
	}

	var color string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			tag, err := a.client.CreateTag(ctx, args[0], color)
			if err != nil {
				return err
			}
			return a.emit(tag, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created tag %q (%s) %s\n", tag.Name, tag.ID, tag.Color)
				return err
			})
		}),
	}
	create.Flags().StringVarP(&color, "color", "c", "", "color class, default bg-blue-500")

	var name, newColor string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			var u api.TagUpdate
			if name != "" {
				u.Name = &name
			}
			if newColor != "" {
				u.Color = &newColor
			}
			if u.Name == nil && u.Color == nil {
				return fmt.Errorf("nothing to update, pass --name or --color")
			}
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			tag, err := a.client.UpdateTag(ctx, api.ID(args[0]), u)
			if err != nil {
				return err
			}
			return a.emit(tag, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated tag %q (%s) %s\n", tag.Name, tag.ID, tag.Color)
				return err
			})
		}),
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&newColor, "color", "", "new color class")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			if err := a.client.DeleteTag(ctx, api.ID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.opts.Out, "Deleted tag", args[0])
			return err
		}),
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
