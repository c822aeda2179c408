package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

// formatTarget addresses the part of a note a format operation edits.
type formatTarget struct {
	Block int
	Start int
	End   int
	Row   int
	Col   int
	At    int
	Cols  int
	Rows  int
}

func (t formatTarget) span() richtext.Span {
	return richtext.Span{Block: t.Block, Start: t.Start, End: t.End}
}

func (t formatTarget) cell() richtext.Cell {
	return richtext.Cell{Block: t.Block, Row: t.Row, Col: t.Col}
}

const formatHelp = `Operations:
  mark NAME            toggle bold, italic, underline, strike, subscript or superscript
  color NAME|VALUE     set the text color ("" clears)
  highlight NAME|VALUE set the background color ("None" clears)
  font NAME            set the font family
  size PX              set the font size
  clear                remove all formatting from the block
  align left|center|right|justify
  list bullet|ordered  toggle a list
  table insert         insert a table at --at with --cols and --rows
  table row-above|row-below|col-left|col-right|delete-row|delete-col|delete`

// applyFormat runs one editor operation on doc.
func applyFormat(doc *richtext.Document, op string, args []string, t formatTarget) error {
	arg := func(i int) (string, error) {
		if i >= len(args) {
			return "", fmt.Errorf("%s needs %d argument(s)", op, i+1)
		}
		return args[i], nil
	}

	switch op {
	case "mark":
		name, err := arg(0)
		if err != nil {
			return err
		}
		mark, ok := richtext.ParseMark(name)
		if !ok {
			return fmt.Errorf("unknown mark %q", name)
		}
		return doc.ToggleMark(t.span(), mark)
	case "color":
		v, _ := arg(0)
		return doc.ApplyStyle(t.span(), richtext.StyleColor, richtext.LookupSwatch(richtext.TextColors, v))
	case "highlight":
		v, _ := arg(0)
		return doc.ApplyStyle(t.span(), richtext.StyleBackground, richtext.LookupSwatch(richtext.HighlightColors, v))
	case "font":
		v, err := arg(0)
		if err != nil {
			return err
		}
		return doc.ApplyStyle(t.span(), richtext.StyleFontFamily, richtext.LookupSwatch(richtext.Fonts, v))
	case "size":
		v, err := arg(0)
		if err != nil {
			return err
		}
		if _, err := strconv.Atoi(v); err == nil {
			v += "px"
		}
		return doc.ApplyStyle(t.span(), richtext.StyleFontSize, v)
	case "clear":
		return doc.ClearFormatting(t.Block)
	case "align":
		v, err := arg(0)
		if err != nil {
			return err
		}
		align, ok := richtext.ParseAlign(v)
		if !ok {
			return fmt.Errorf("unknown alignment %q", v)
		}
		return doc.SetAlign(t.Block, align)
	case "list":
		v, err := arg(0)
		if err != nil {
			return err
		}
		switch v {
		case "bullet":
			return doc.ToggleList(t.Block, false)
		case "ordered":
			return doc.ToggleList(t.Block, true)
		default:
			return fmt.Errorf("unknown list kind %q", v)
		}
	case "table":
		v, err := arg(0)
		if err != nil {
			return err
		}
		return applyTableOp(doc, v, t)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func applyTableOp(doc *richtext.Document, op string, t formatTarget) error {
	switch op {
	case "insert":
		_, err := doc.InsertTable(t.At, t.Cols, t.Rows)
		return err
	case "row-above":
		return doc.AddRowAbove(t.cell())
	case "row-below":
		return doc.AddRowBelow(t.cell())
	case "col-left":
		return doc.AddColumnLeft(t.cell())
	case "col-right":
		return doc.AddColumnRight(t.cell())
	case "delete-row":
		return doc.DeleteRow(t.cell())
	case "delete-col":
		return doc.DeleteColumn(t.cell())
	case "delete":
		return doc.DeleteTable(t.Block)
	default:
		return fmt.Errorf("unknown table operation %q", op)
	}
}

func (a *App) formatCommand() *cobra.Command {
	var (
		target formatTarget
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "format NOTE_ID OPERATION [ARGS...]",
		Short: "Apply a formatting operation to a stored note",
		Long:  "Apply one rich text editing operation to a note and save it.\n\n" + formatHelp,
		Example: `  notekeeper notes format 12 mark bold --block 0 --start 0 --end 5
  notekeeper notes format 12 color Red --block 1
  notekeeper notes format 12 table insert --at 2 --cols 3 --rows 2`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.run(func(ctx context.Context, args []string) error {
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			id := api.ID(args[0])
			note, err := a.client.GetNote(ctx, id)
			if err != nil {
				return err
			}
			doc, err := richtext.Parse(note.Content)
			if err != nil {
				return fmt.Errorf("note %s is not valid rich text: %w", id, err)
			}
			if err := applyFormat(doc, strings.ToLower(args[1]), args[2:], target); err != nil {
				return err
			}
			content := doc.HTML()
			if dryRun {
				_, err := fmt.Fprintln(a.opts.Out, content)
				return err
			}
			updated, err := a.client.UpdateNote(ctx, id, content)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.opts.Out, updated.Content)
			return err
		}),
	}
	f := cmd.Flags()
	f.IntVar(&target.Block, "block", 0, "block index")
	f.IntVar(&target.Start, "start", 0, "first rune of the span")
	f.IntVar(&target.End, "end", -1, "end of the span, -1 for the end of the block")
	f.IntVar(&target.Row, "row", 0, "table row")
	f.IntVar(&target.Col, "col", 0, "table column")
	f.IntVar(&target.At, "at", 0, "block index for a new table")
	f.IntVar(&target.Cols, "cols", 3, "columns of a new table")
	f.IntVar(&target.Rows, "rows", 2, "body rows of a new table")
	f.BoolVar(&dryRun, "dry-run", false, "print the result without saving")
	return cmd
}
