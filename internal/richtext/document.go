// Package richtext models note content as a tree of tagged nodes.
//
// Notes are stored as HTML. Parse turns that HTML into a Document, the editing
// commands in this package transform the Document, and HTML renders it back in
// a canonical, sanitized form:
//
//	doc, err := richtext.Parse(note.Content)
//	if err != nil { ... }
//	_ = doc.ToggleMark(richtext.Span{Block: 0, Start: 0, End: 5}, richtext.MarkBold)
//	note.Content = doc.HTML()
package richtext

import "strings"

// Kind identifies the variant of a Node.
type Kind uint8

// Node variants. Paragraph, List and Table appear at the top level of a
// Document; the rest only appear nested.
const (
	KindParagraph Kind = iota + 1
	KindText
	KindLineBreak
	KindList
	KindListItem
	KindTable
	KindRow
	KindHeaderCell
	KindCell
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindText:
		return "text"
	case KindLineBreak:
		return "line-break"
	case KindList:
		return "list"
	case KindListItem:
		return "list-item"
	case KindTable:
		return "table"
	case KindRow:
		return "row"
	case KindHeaderCell:
		return "header-cell"
	case KindCell:
		return "cell"
	default:
		return "unknown"
	}
}

// Mark is a bit set of inline formatting flags on a text run.
type Mark uint8

// Inline marks.
const (
	MarkBold Mark = 1 << iota
	MarkItalic
	MarkUnderline
	MarkStrike
	MarkSub
	MarkSup
)

// Has reports whether all bits of x are set.
func (m Mark) Has(x Mark) bool { return m&x == x }

var markNames = map[string]Mark{
	"bold":        MarkBold,
	"italic":      MarkItalic,
	"underline":   MarkUnderline,
	"strike":      MarkStrike,
	"subscript":   MarkSub,
	"superscript": MarkSup,
}

// ParseMark maps a mark name ("bold", "italic", "underline", "strike",
// "subscript", "superscript") to its Mark.
func ParseMark(name string) (Mark, bool) {
	m, ok := markNames[strings.ToLower(name)]
	return m, ok
}

// Style carries the CSS-like attributes of a text run.
type Style struct {
	Color      string
	Background string
	FontFamily string
	FontSize   string
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool { return s == Style{} }

// merge returns s with every non-empty attribute of o applied on top.
func (s Style) merge(o Style) Style {
	if o.Color != "" {
		s.Color = o.Color
	}
	if o.Background != "" {
		s.Background = o.Background
	}
	if o.FontFamily != "" {
		s.FontFamily = o.FontFamily
	}
	if o.FontSize != "" {
		s.FontSize = o.FontSize
	}
	return s
}

// Align is the horizontal alignment of a paragraph.
type Align string

// Alignments. AlignDefault renders without a text-align declaration.
const (
	AlignDefault Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

func parseAlign(s string) Align {
	switch Align(strings.ToLower(strings.TrimSpace(s))) {
	case AlignLeft:
		return AlignLeft
	case AlignCenter:
		return AlignCenter
	case AlignRight:
		return AlignRight
	case AlignJustify:
		return AlignJustify
	default:
		return AlignDefault
	}
}

// ParseAlign maps "left", "center", "right", "justify" or "" to an Align.
func ParseAlign(s string) (Align, bool) {
	a := parseAlign(s)
	return a, a != AlignDefault || strings.TrimSpace(s) == ""
}

// Node is one element of the document tree. Which fields are meaningful
// depends on Kind:
//
//	KindText       Text, Marks, Style
//	KindParagraph  Align, Children (text runs and line breaks)
//	KindList       Ordered, Children (list items)
//	KindListItem   Children (text runs, line breaks, nested lists)
//	KindTable      Children (rows)
//	KindRow        Children (header cells and cells)
//	KindHeaderCell, KindCell  Children (text runs and line breaks)
type Node struct {
	Kind     Kind
	Text     string
	Marks    Mark
	Style    Style
	Align    Align
	Ordered  bool
	Children []*Node
}

// Document is a parsed note.
type Document struct {
	Blocks []*Node
}

// NewText returns a plain text run.
func NewText(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// NewParagraph returns a paragraph holding the given inline nodes.
func NewParagraph(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}

// FromPlainText builds a document with one paragraph per line of s.
func FromPlainText(s string) *Document {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	doc := &Document{}
	for _, line := range strings.Split(s, "\n") {
		p := NewParagraph()
		if line != "" {
			p.Children = append(p.Children, NewText(line))
		}
		doc.Blocks = append(doc.Blocks, p)
	}
	// Drop trailing blank lines left by editors that end files with a newline.
	for len(doc.Blocks) > 0 && len(doc.Blocks[len(doc.Blocks)-1].Children) == 0 {
		doc.Blocks = doc.Blocks[:len(doc.Blocks)-1]
	}
	return doc
}

// IsEmpty reports whether the document has no text and no tables.
func (d *Document) IsEmpty() bool {
	for _, b := range d.Blocks {
		if b.Kind == KindTable {
			return false
		}
	}
	return strings.TrimSpace(d.PlainText()) == ""
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Blocks: make([]*Node, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

func (n *Node) clone() *Node {
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.clone()
		}
	}
	return &c
}

// isInlineContainer reports whether n holds text runs directly.
func (n *Node) isInlineContainer() bool {
	switch n.Kind {
	case KindParagraph, KindListItem, KindHeaderCell, KindCell:
		return true
	default:
		return false
	}
}

// normalize merges adjacent runs with identical formatting and drops empty
// runs. With stripPlaceholder it also removes the trailing line break browsers
// leave in blocks as an empty-line placeholder; only parsed input carries those.
func (n *Node) normalize(stripPlaceholder bool) {
	for _, c := range n.Children {
		c.normalize(stripPlaceholder)
	}
	if !n.isInlineContainer() {
		return
	}

	merged := n.Children[:0]
	for _, c := range n.Children {
		if c.Kind == KindText {
			if c.Text == "" {
				continue
			}
			if len(merged) > 0 {
				prev := merged[len(merged)-1]
				if prev.Kind == KindText && prev.Marks == c.Marks && prev.Style == c.Style {
					prev.Text += c.Text
					continue
				}
			}
		}
		merged = append(merged, c)
	}
	// Clear the tail so dropped nodes are not retained by the backing array.
	for i := len(merged); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = merged
	if !stripPlaceholder {
		return
	}

	// A list item ends with its nested lists; the placeholder rule applies to
	// the inline content before them.
	last := len(n.Children) - 1
	for last >= 0 && n.Children[last].Kind == KindList {
		last--
	}
	if last >= 0 && n.Children[last].Kind == KindLineBreak {
		n.Children = append(n.Children[:last], n.Children[last+1:]...)
	}
}

func (d *Document) normalize(stripPlaceholder bool) {
	for _, b := range d.Blocks {
		b.normalize(stripPlaceholder)
	}
}
