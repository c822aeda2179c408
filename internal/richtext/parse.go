package richtext

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with their content.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Head:     true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Svg:      true,
	atom.Math:     true,
	atom.Caption:  true,
}

// paragraphElements become a paragraph when they hold only inline content.
var paragraphElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Address:    true,
	atom.Center:     true,
	atom.Li:         true,
}

var headingElements = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var asciiSpace = regexp.MustCompile(`[ \t\n\r\f]+`)

// Parse parses note HTML into a Document. Script and style elements are
// dropped with their content; unknown elements are unwrapped and their text
// kept.
func Parse(src string) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("parse note html: %w", err)
	}

	b := &blockBuilder{}
	for _, n := range nodes {
		b.node(n, AlignDefault)
	}
	b.flush()

	doc := &Document{Blocks: b.out}
	doc.normalize(true)
	return doc, nil
}

// blockBuilder collects top-level blocks. Inline content that appears
// between blocks is gathered into an implicit paragraph.
type blockBuilder struct {
	out     []*Node
	pending *Node
}

func (b *blockBuilder) inline() *Node {
	if b.pending == nil {
		b.pending = &Node{Kind: KindParagraph}
	}
	return b.pending
}

// flush closes the implicit paragraph. One holding only whitespace is the
// formatting between tags, not content.
func (b *blockBuilder) flush() {
	if b.pending == nil {
		return
	}
	p := b.pending
	b.pending = nil
	for _, c := range p.Children {
		if c.Kind != KindText || strings.TrimSpace(c.Text) != "" {
			b.out = append(b.out, p)
			return
		}
	}
}

func (b *blockBuilder) node(n *html.Node, align Align) {
	switch n.Type {
	case html.TextNode:
		appendInline(b.inline(), n, 0, Style{})
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedElements[n.DataAtom] {
		return
	}

	switch {
	case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
		b.flush()
		b.out = append(b.out, parseList(n))
	case n.DataAtom == atom.Table:
		b.flush()
		if t := parseTable(n); t != nil {
			b.out = append(b.out, t)
		}
	case n.DataAtom == atom.Br:
		p := b.inline()
		p.Children = append(p.Children, &Node{Kind: KindLineBreak})
	case paragraphElements[n.DataAtom]:
		b.flush()
		blockAlign := elementAlign(n, align)
		if hasBlockChild(n) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				b.node(c, blockAlign)
			}
			b.flush()
			return
		}
		p := &Node{Kind: KindParagraph, Align: blockAlign}
		var marks Mark
		if headingElements[n.DataAtom] {
			marks = MarkBold
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendInline(p, c, marks, Style{})
		}
		b.out = append(b.out, p)
	case isStructural(n.DataAtom):
		// Stray table parts or body wrappers: keep whatever they contain.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.node(c, align)
		}
	default:
		appendInline(b.inline(), n, 0, Style{})
	}
}

func isStructural(a atom.Atom) bool {
	switch a {
	case atom.Html, atom.Body, atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr, atom.Td, atom.Th,
		atom.Section, atom.Article, atom.Header, atom.Footer, atom.Main, atom.Nav, atom.Aside:
		return true
	default:
		return false
	}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Ul || c.DataAtom == atom.Ol || c.DataAtom == atom.Table || paragraphElements[c.DataAtom] {
			return true
		}
	}
	return false
}

// appendInline appends the inline content of n to parent, inheriting marks and style.
func appendInline(parent *Node, n *html.Node, marks Mark, style Style) {
	switch n.Type {
	case html.TextNode:
		text := asciiSpace.ReplaceAllString(n.Data, " ")
		if text != "" {
			parent.Children = append(parent.Children, &Node{Kind: KindText, Text: text, Marks: marks, Style: style})
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedElements[n.DataAtom] {
		return
	}

	switch n.DataAtom {
	case atom.Br:
		parent.Children = append(parent.Children, &Node{Kind: KindLineBreak})
		return
	case atom.B, atom.Strong:
		marks |= MarkBold
	case atom.I, atom.Em:
		marks |= MarkItalic
	case atom.U, atom.Ins:
		marks |= MarkUnderline
	case atom.S, atom.Strike, atom.Del:
		marks |= MarkStrike
	case atom.Sub:
		marks |= MarkSub
	case atom.Sup:
		marks |= MarkSup
	case atom.Font:
		style = style.merge(fontElementStyle(n))
	case atom.Ul, atom.Ol:
		if parent.Kind == KindListItem {
			parent.Children = append(parent.Children, parseList(n))
			return
		}
	}

	declStyle, declMarks := parseStyleAttr(attr(n, "style"))
	style = style.merge(declStyle)
	marks |= declMarks

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendInline(parent, c, marks, style)
	}
}

func parseList(n *html.Node) *Node {
	list := &Node{Kind: KindList, Ordered: n.DataAtom == atom.Ol}
	var loose *flattener
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			loose = nil
			item := &Node{Kind: KindListItem}
			f := &flattener{parent: item, keepLists: true}
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				f.add(gc)
			}
			list.Children = append(list.Children, item)
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) && len(list.Children) > 0 {
			prev := list.Children[len(list.Children)-1]
			prev.Children = append(prev.Children, parseList(c))
			continue
		}
		if loose == nil {
			loose = &flattener{parent: &Node{Kind: KindListItem}, keepLists: true}
			list.Children = append(list.Children, loose.parent)
		}
		loose.add(c)
	}
	return list
}

func parseTable(n *html.Node) *Node {
	table := &Node{Kind: KindTable}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			case atom.Tr:
				table.Children = append(table.Children, parseRow(c))
			}
		}
	}
	walk(n)
	if len(table.Children) == 0 {
		return nil
	}
	return table
}

func parseRow(n *html.Node) *Node {
	row := &Node{Kind: KindRow}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		var cell *Node
		switch c.DataAtom {
		case atom.Th:
			cell = &Node{Kind: KindHeaderCell}
		case atom.Td:
			cell = &Node{Kind: KindCell}
		default:
			continue
		}
		f := &flattener{parent: cell}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			f.add(gc)
		}
		row.Children = append(row.Children, cell)
	}
	return row
}

// flattener fills a node that holds only inline content, a list item or a
// table cell, putting each block it meets on its own line. A nested table
// becomes one line per cell. Lists stay nested in list items and are
// flattened in cells.
type flattener struct {
	parent    *Node
	keepLists bool
	// ended is set when a block was just closed; the next inline content
	// starts on a new line.
	ended bool
}

func (f *flattener) add(n *html.Node) {
	if n.Type == html.TextNode {
		if strings.TrimSpace(n.Data) == "" && (f.ended || len(f.parent.Children) == 0) {
			return
		}
		f.inline(n)
		return
	}
	if n.Type != html.ElementNode || droppedElements[n.DataAtom] {
		return
	}

	isList := n.DataAtom == atom.Ul || n.DataAtom == atom.Ol
	switch {
	case isList && f.keepLists:
		f.parent.Children = append(f.parent.Children, parseList(n))
		f.ended = false
	case n.DataAtom == atom.Table:
		f.table(n)
	case isList || paragraphElements[n.DataAtom] || hasBlockChild(n):
		f.lineBreak()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f.add(c)
		}
		f.ended = true
	default:
		f.inline(n)
	}
}

func (f *flattener) inline(n *html.Node) {
	broke := f.ended && f.lineBreak()
	before := len(f.parent.Children)
	appendInline(f.parent, n, 0, Style{})
	if broke && len(f.parent.Children) == before {
		// Nothing followed the break.
		f.parent.Children = f.parent.Children[:before-1]
	}
}

func (f *flattener) table(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr:
			f.table(c)
		case atom.Td, atom.Th:
			f.lineBreak()
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				f.add(gc)
			}
			f.ended = true
		}
	}
}

// lineBreak ends the current line when it holds inline content, dropping the
// whitespace that trails it. It reports whether a break was added.
func (f *flattener) lineBreak() bool {
	f.ended = false
	kids := f.parent.Children
	for len(kids) > 0 && kids[len(kids)-1].Kind == KindText && strings.TrimSpace(kids[len(kids)-1].Text) == "" {
		kids = kids[:len(kids)-1]
	}
	f.parent.Children = kids
	if len(kids) == 0 {
		return false
	}
	if k := kids[len(kids)-1].Kind; k == KindLineBreak || k == KindList {
		return false
	}
	f.parent.Children = append(kids, &Node{Kind: KindLineBreak})
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func elementAlign(n *html.Node, inherited Align) Align {
	if a := parseAlign(attr(n, "align")); a != AlignDefault {
		return a
	}
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), "text-align") {
			if a := parseAlign(value); a != AlignDefault {
				return a
			}
		}
	}
	return inherited
}

// legacyFontSizes maps <font size="N"> to CSS keywords.
var legacyFontSizes = map[string]string{
	"1": "x-small",
	"2": "small",
	"3": "medium",
	"4": "large",
	"5": "x-large",
	"6": "xx-large",
	"7": "xxx-large",
}

func fontElementStyle(n *html.Node) Style {
	var s Style
	if v, ok := sanitizeStyleValue(attr(n, "color")); ok {
		s.Color = v
	}
	if v, ok := sanitizeStyleValue(attr(n, "face")); ok {
		s.FontFamily = v
	}
	if size, ok := legacyFontSizes[strings.TrimSpace(attr(n, "size"))]; ok {
		s.FontSize = size
	}
	return s
}

// parseStyleAttr extracts the supported declarations of a style attribute.
// Declarations that only toggle formatting become marks.
func parseStyleAttr(decls string) (Style, Mark) {
	var (
		s     Style
		marks Mark
	)
	if decls == "" {
		return s, 0
	}
	for _, decl := range strings.Split(decls, ";") {
		prop, raw, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		lower := strings.ToLower(strings.TrimSpace(raw))

		switch prop {
		case "font-weight":
			if lower == "bold" || lower == "bolder" || lower == "600" || lower == "700" || lower == "800" || lower == "900" {
				marks |= MarkBold
			}
			continue
		case "font-style":
			if lower == "italic" || lower == "oblique" {
				marks |= MarkItalic
			}
			continue
		case "text-decoration", "text-decoration-line":
			if strings.Contains(lower, "underline") {
				marks |= MarkUnderline
			}
			if strings.Contains(lower, "line-through") {
				marks |= MarkStrike
			}
			continue
		case "vertical-align":
			switch lower {
			case "sub":
				marks |= MarkSub
			case "super":
				marks |= MarkSup
			}
			continue
		}

		value, ok := sanitizeStyleValue(raw)
		if !ok {
			continue
		}
		switch prop {
		case "color":
			s.Color = value
		case "background-color", "background":
			if lower != "transparent" {
				s.Background = value
			}
		case "font-family":
			s.FontFamily = value
		case "font-size":
			s.FontSize = value
		}
	}
	return s, marks
}

var safeStyleValue = regexp.MustCompile(`^[a-zA-Z0-9#%(),.\s"'-]+$`)

// sanitizeStyleValue accepts colors, font names and sizes, and rejects
// anything that could load a resource or run script.
func sanitizeStyleValue(v string) (string, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
	if v == "" || len(v) > 100 || !safeStyleValue.MatchString(v) {
		return "", false
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "(") &&
		!strings.HasPrefix(lower, "rgb(") && !strings.HasPrefix(lower, "rgba(") &&
		!strings.HasPrefix(lower, "hsl(") && !strings.HasPrefix(lower, "hsla(") {
		return "", false
	}
	return strings.TrimSpace(v), true
}
