package richtext

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Command errors.
var (
	ErrNoBlock       = errors.New("richtext: block index out of range")
	ErrNotParagraph  = errors.New("richtext: block is not a paragraph")
	ErrNotTable      = errors.New("richtext: block is not a table")
	ErrInvalidSpan   = errors.New("richtext: span out of range")
	ErrInvalidCell   = errors.New("richtext: cell out of range")
	ErrInvalidStyle  = errors.New("richtext: unsupported style value")
	ErrLastRow       = errors.New("richtext: cannot delete the last row")
	ErrLastColumn    = errors.New("richtext: cannot delete the last column")
	ErrInvalidLayout = errors.New("richtext: a table needs at least one column")
)

// Span selects a rune range [Start, End) inside a paragraph. A line break
// counts as one rune. End -1 extends the span to the end of the paragraph.
type Span struct {
	Block int
	Start int
	End   int
}

// Cell addresses a table cell.
type Cell struct {
	Block int
	Row   int
	Col   int
}

// StyleAttr names a style attribute ApplyStyle can set.
type StyleAttr string

// Style attributes.
const (
	StyleColor      StyleAttr = "color"
	StyleBackground StyleAttr = "background"
	StyleFontFamily StyleAttr = "font-family"
	StyleFontSize   StyleAttr = "font-size"
)

func (d *Document) block(i int) (*Node, error) {
	if i < 0 || i >= len(d.Blocks) {
		return nil, fmt.Errorf("%w: %d", ErrNoBlock, i)
	}
	return d.Blocks[i], nil
}

func (d *Document) paragraph(i int) (*Node, error) {
	b, err := d.block(i)
	if err != nil {
		return nil, err
	}
	if b.Kind != KindParagraph {
		return nil, fmt.Errorf("%w: block %d is a %s", ErrNotParagraph, i, b.Kind)
	}
	return b, nil
}

func (d *Document) table(i int) (*Node, error) {
	b, err := d.block(i)
	if err != nil {
		return nil, err
	}
	if b.Kind != KindTable {
		return nil, fmt.Errorf("%w: block %d is a %s", ErrNotTable, i, b.Kind)
	}
	return b, nil
}

func inlineLen(n *Node) int {
	if n.Kind == KindText {
		return utf8.RuneCountInString(n.Text)
	}
	return 1
}

// selectRuns splits the text runs of p at the span boundaries and returns
// the runs that fall inside the span.
func selectRuns(p *Node, s Span) ([]*Node, error) {
	total := 0
	for _, c := range p.Children {
		total += inlineLen(c)
	}
	end := s.End
	if end < 0 {
		end = total
	}
	if s.Start < 0 || s.Start > end || end > total {
		return nil, fmt.Errorf("%w: [%d, %d) in a paragraph of %d", ErrInvalidSpan, s.Start, s.End, total)
	}

	splitRunAt(p, end)
	splitRunAt(p, s.Start)

	var runs []*Node
	pos := 0
	for _, c := range p.Children {
		l := inlineLen(c)
		if c.Kind == KindText && pos >= s.Start && pos+l <= end {
			runs = append(runs, c)
		}
		pos += l
	}
	return runs, nil
}

// splitRunAt makes sure a run boundary exists at rune offset off.
func splitRunAt(p *Node, off int) {
	pos := 0
	for i, c := range p.Children {
		l := inlineLen(c)
		if c.Kind == KindText && off > pos && off < pos+l {
			r := []rune(c.Text)
			cut := off - pos
			tail := &Node{Kind: KindText, Text: string(r[cut:]), Marks: c.Marks, Style: c.Style}
			c.Text = string(r[:cut])
			p.Children = append(p.Children[:i+1], append([]*Node{tail}, p.Children[i+1:]...)...)
			return
		}
		pos += l
	}
}

// ToggleMark removes mark from the span when every run in it already carries
// it, and adds it otherwise. Subscript and superscript exclude each other.
func (d *Document) ToggleMark(s Span, mark Mark) error {
	p, err := d.paragraph(s.Block)
	if err != nil {
		return err
	}
	runs, err := selectRuns(p, s)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	all := true
	for _, r := range runs {
		if !r.Marks.Has(mark) {
			all = false
			break
		}
	}
	for _, r := range runs {
		if all {
			r.Marks &^= mark
			continue
		}
		r.Marks |= mark
		if mark&MarkSub != 0 {
			r.Marks &^= MarkSup
		}
		if mark&MarkSup != 0 {
			r.Marks &^= MarkSub
		}
	}
	p.normalize(false)
	return nil
}

// ApplyStyle sets a style attribute on the span. An empty value or
// "transparent" clears it.
func (d *Document) ApplyStyle(s Span, attr StyleAttr, value string) error {
	var clear bool
	switch value {
	case "", "transparent":
		clear = true
	default:
		v, ok := sanitizeStyleValue(value)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidStyle, value)
		}
		value = v
	}

	var set func(*Style)
	switch attr {
	case StyleColor:
		set = func(st *Style) { st.Color = value }
	case StyleBackground:
		set = func(st *Style) { st.Background = value }
	case StyleFontFamily:
		set = func(st *Style) { st.FontFamily = value }
	case StyleFontSize:
		set = func(st *Style) { st.FontSize = value }
	default:
		return fmt.Errorf("%w: attribute %q", ErrInvalidStyle, attr)
	}
	if clear {
		value = ""
	}

	p, err := d.paragraph(s.Block)
	if err != nil {
		return err
	}
	runs, err := selectRuns(p, s)
	if err != nil {
		return err
	}
	for _, r := range runs {
		set(&r.Style)
	}
	p.normalize(false)
	return nil
}

// ClearFormatting removes marks and styles from every run in the block.
func (d *Document) ClearFormatting(block int) error {
	b, err := d.block(block)
	if err != nil {
		return err
	}
	clearRuns(b)
	b.normalize(false)
	return nil
}

func clearRuns(n *Node) {
	if n.Kind == KindText {
		n.Marks = 0
		n.Style = Style{}
	}
	for _, c := range n.Children {
		clearRuns(c)
	}
}

// SetAlign sets the alignment of a paragraph.
func (d *Document) SetAlign(block int, align Align) error {
	p, err := d.paragraph(block)
	if err != nil {
		return err
	}
	p.Align = align
	return nil
}

// ToggleList turns a paragraph into a single-item list. Applied to a list of
// the same kind it unwraps the items into paragraphs; applied to a list of the
// other kind it switches the kind.
func (d *Document) ToggleList(block int, ordered bool) error {
	b, err := d.block(block)
	if err != nil {
		return err
	}
	switch b.Kind {
	case KindParagraph:
		item := &Node{Kind: KindListItem, Children: b.Children}
		d.Blocks[block] = &Node{Kind: KindList, Ordered: ordered, Children: []*Node{item}}
	case KindList:
		if b.Ordered != ordered {
			b.Ordered = ordered
			return nil
		}
		paras := unwrapList(b)
		d.Blocks = append(d.Blocks[:block], append(paras, d.Blocks[block+1:]...)...)
	default:
		return fmt.Errorf("%w: block %d is a %s", ErrNotParagraph, block, b.Kind)
	}
	return nil
}

func unwrapList(list *Node) []*Node {
	var out []*Node
	for _, item := range list.Children {
		p := &Node{Kind: KindParagraph}
		var nested []*Node
		for _, c := range item.Children {
			if c.Kind == KindList {
				nested = append(nested, unwrapList(c)...)
			} else {
				p.Children = append(p.Children, c)
			}
		}
		out = append(out, p)
		out = append(out, nested...)
	}
	return out
}

// InsertTable inserts a table with a header row of cols cells labelled
// "Header 1".."Header N" followed by bodyRows empty rows. at is clamped to
// the document bounds. It returns the index of the new block.
func (d *Document) InsertTable(at, cols, bodyRows int) (int, error) {
	if cols < 1 {
		return 0, ErrInvalidLayout
	}
	if bodyRows < 0 {
		bodyRows = 0
	}
	at = max(0, min(at, len(d.Blocks)))

	header := &Node{Kind: KindRow}
	for i := range cols {
		header.Children = append(header.Children, &Node{
			Kind:     KindHeaderCell,
			Children: []*Node{NewText("Header " + strconv.Itoa(i+1))},
		})
	}
	table := &Node{Kind: KindTable, Children: []*Node{header}}
	for range bodyRows {
		row := &Node{Kind: KindRow}
		for range cols {
			row.Children = append(row.Children, &Node{Kind: KindCell})
		}
		table.Children = append(table.Children, row)
	}

	d.Blocks = append(d.Blocks[:at], append([]*Node{table}, d.Blocks[at:]...)...)
	return at, nil
}

func (d *Document) cell(c Cell) (*Node, error) {
	t, err := d.table(c.Block)
	if err != nil {
		return nil, err
	}
	if c.Row < 0 || c.Row >= len(t.Children) {
		return nil, fmt.Errorf("%w: row %d", ErrInvalidCell, c.Row)
	}
	if c.Col < 0 || c.Col >= len(t.Children[c.Row].Children) {
		return nil, fmt.Errorf("%w: column %d", ErrInvalidCell, c.Col)
	}
	return t, nil
}

// emptyRowLike returns a row with the same cell kinds as row and no content.
func emptyRowLike(row *Node) *Node {
	out := &Node{Kind: KindRow, Children: make([]*Node, len(row.Children))}
	for i, c := range row.Children {
		out.Children[i] = &Node{Kind: c.Kind}
	}
	return out
}

// AddRowAbove inserts an empty row above the cell's row.
func (d *Document) AddRowAbove(c Cell) error { return d.addRow(c, 0) }

// AddRowBelow inserts an empty row below the cell's row.
func (d *Document) AddRowBelow(c Cell) error { return d.addRow(c, 1) }

func (d *Document) addRow(c Cell, offset int) error {
	t, err := d.cell(c)
	if err != nil {
		return err
	}
	row := emptyRowLike(t.Children[c.Row])
	at := c.Row + offset
	t.Children = append(t.Children[:at], append([]*Node{row}, t.Children[at:]...)...)
	return nil
}

// AddColumnLeft inserts a column left of the cell.
func (d *Document) AddColumnLeft(c Cell) error { return d.addColumn(c, 0) }

// AddColumnRight inserts a column right of the cell.
func (d *Document) AddColumnRight(c Cell) error { return d.addColumn(c, 1) }

// addColumn gives a header row a "Header" cell and every other row an empty
// cell.
func (d *Document) addColumn(c Cell, offset int) error {
	t, err := d.cell(c)
	if err != nil {
		return err
	}
	at := c.Col + offset
	for i, row := range t.Children {
		cell := &Node{Kind: KindCell}
		if i == 0 && len(row.Children) > 0 && row.Children[0].Kind == KindHeaderCell {
			cell = &Node{Kind: KindHeaderCell, Children: []*Node{NewText("Header")}}
		}
		pos := min(at, len(row.Children))
		row.Children = append(row.Children[:pos], append([]*Node{cell}, row.Children[pos:]...)...)
	}
	return nil
}

// DeleteRow removes the cell's row. The last row cannot be deleted.
func (d *Document) DeleteRow(c Cell) error {
	t, err := d.cell(c)
	if err != nil {
		return err
	}
	if len(t.Children) <= 1 {
		return ErrLastRow
	}
	t.Children = append(t.Children[:c.Row], t.Children[c.Row+1:]...)
	return nil
}

// DeleteColumn removes the cell's column from every row. The last column
// cannot be deleted.
func (d *Document) DeleteColumn(c Cell) error {
	t, err := d.cell(c)
	if err != nil {
		return err
	}
	if len(t.Children[0].Children) <= 1 {
		return ErrLastColumn
	}
	for _, row := range t.Children {
		if c.Col < len(row.Children) {
			row.Children = append(row.Children[:c.Col], row.Children[c.Col+1:]...)
		}
	}
	return nil
}

// DeleteTable removes a table block.
func (d *Document) DeleteTable(block int) error {
	if _, err := d.table(block); err != nil {
		return err
	}
	d.Blocks = append(d.Blocks[:block], d.Blocks[block+1:]...)
	return nil
}

// Swatch is a named editor palette entry.
type Swatch struct {
	Name  string
	Value string
}

// Editor palettes.
var (
	Fonts = []Swatch{
		{"Inter", "Inter, sans-serif"},
		{"Georgia", "Georgia, serif"},
		{"Arial", "Arial, sans-serif"},
		{"Courier New", `"Courier New", monospace`},
		{"Times New Roman", `"Times New Roman", serif`},
		{"Verdana", "Verdana, sans-serif"},
		{"Trebuchet MS", `"Trebuchet MS", sans-serif`},
	}

	TextColors = []Swatch{
		{"White", "#ffffff"},
		{"Light Gray", "#d1d5db"},
		{"Gray", "#9ca3af"},
		{"Dark Gray", "#4b5563"},
		{"Red", "#ef4444"},
		{"Orange", "#f97316"},
		{"Yellow", "#eab308"},
		{"Green", "#22c55e"},
		{"Teal", "#14b8a6"},
		{"Blue", "#3b82f6"},
		{"Indigo", "#6366f1"},
		{"Purple", "#a855f7"},
		{"Pink", "#ec4899"},
		{"Rose", "#f43f5e"},
		{"Cyan", "#06b6d4"},
	}

	HighlightColors = []Swatch{
		{"None", "transparent"},
		{"Yellow", "#fef08a"},
		{"Lime", "#bef264"},
		{"Cyan", "#67e8f9"},
		{"Pink", "#f9a8d4"},
		{"Orange", "#fed7aa"},
		{"Purple", "#d8b4fe"},
		{"Red", "#fca5a5"},
		{"Green", "#86efac"},
	}

	// FontSizes are in pixels.
	FontSizes = []int{8, 9, 10, 11, 12, 14, 16, 18, 20, 24, 28, 32, 36, 48, 72}
)

// LookupSwatch finds a palette entry by name, case-sensitively, or returns
// the name itself as the value when no entry matches.
func LookupSwatch(palette []Swatch, name string) string {
	for _, s := range palette {
		if s.Name == name {
			return s.Value
		}
	}
	return name
}
