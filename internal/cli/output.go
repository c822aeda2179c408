package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable writes rows under headers, or "No <noun> found." when empty.
func printTable(w io.Writer, noun string, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "No %s found.\n", noun)
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON when --json is set and calls human otherwise.
func (a *App) emit(v any, human func(w io.Writer) error) error {
	if a.jsonOutput {
		return printJSON(a.opts.Out, v)
	}
	return human(a.opts.Out)
}
