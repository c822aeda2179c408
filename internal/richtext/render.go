package richtext

import (
	"html"
	"strings"
)

// HTML renders the document as canonical HTML. Parsing the output again
// yields an equal document.
func (d *Document) HTML() string {
	var b strings.Builder
	for _, blk := range d.Blocks {
		renderBlock(&b, blk)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p")
		if n.Align != AlignDefault {
			b.WriteString(` style="text-align: `)
			b.WriteString(string(n.Align))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		renderInlines(b, n.Children)
		b.WriteString("</p>")
	case KindList:
		renderList(b, n)
	case KindTable:
		renderTable(b, n)
	}
}

func renderList(b *strings.Builder, n *Node) {
	tag := "ul"
	if n.Ordered {
		tag = "ol"
	}
	b.WriteString("<" + tag + ">")
	for _, item := range n.Children {
		b.WriteString("<li>")
		var inline, nested []*Node
		for _, c := range item.Children {
			if c.Kind == KindList {
				nested = append(nested, c)
			} else {
				inline = append(inline, c)
			}
		}
		renderInlines(b, inline)
		for _, l := range nested {
			renderList(b, l)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
}

func renderTable(b *strings.Builder, n *Node) {
	head := 0
	for head < len(n.Children) && isHeaderRow(n.Children[head]) {
		head++
	}

	b.WriteString("<table>")
	if head > 0 {
		b.WriteString("<thead>")
		for _, row := range n.Children[:head] {
			renderRow(b, row)
		}
		b.WriteString("</thead>")
	}
	if head < len(n.Children) {
		b.WriteString("<tbody>")
		for _, row := range n.Children[head:] {
			renderRow(b, row)
		}
		b.WriteString("</tbody>")
	}
	b.WriteString("</table>")
}

func isHeaderRow(row *Node) bool {
	if len(row.Children) == 0 {
		return false
	}
	for _, c := range row.Children {
		if c.Kind != KindHeaderCell {
			return false
		}
	}
	return true
}

func renderRow(b *strings.Builder, row *Node) {
	b.WriteString("<tr>")
	for _, cell := range row.Children {
		tag := "td"
		if cell.Kind == KindHeaderCell {
			tag = "th"
		}
		b.WriteString("<" + tag + ">")
		renderInlines(b, cell.Children)
		b.WriteString("</" + tag + ">")
	}
	b.WriteString("</tr>")
}

// renderInlines writes text runs and line breaks. An empty container gets a
// placeholder break so editors keep the line, and a trailing break gets one
// too so it survives the next parse.
func renderInlines(b *strings.Builder, nodes []*Node) {
	if len(nodes) == 0 {
		b.WriteString("<br>")
		return
	}
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			renderText(b, n)
		case KindLineBreak:
			b.WriteString("<br>")
		}
	}
	if nodes[len(nodes)-1].Kind == KindLineBreak {
		b.WriteString("<br>")
	}
}

var markTags = []struct {
	mark Mark
	tag  string
}{
	{MarkBold, "strong"},
	{MarkItalic, "em"},
	{MarkUnderline, "u"},
	{MarkStrike, "s"},
	{MarkSub, "sub"},
	{MarkSup, "sup"},
}

func renderText(b *strings.Builder, n *Node) {
	if decl := styleDecl(n.Style); decl != "" {
		b.WriteString(`<span style="`)
		b.WriteString(html.EscapeString(decl))
		b.WriteString(`">`)
		defer b.WriteString("</span>")
	}
	for _, mt := range markTags {
		if n.Marks.Has(mt.mark) {
			b.WriteString("<" + mt.tag + ">")
		}
	}
	b.WriteString(html.EscapeString(n.Text))
	for i := len(markTags) - 1; i >= 0; i-- {
		if n.Marks.Has(markTags[i].mark) {
			b.WriteString("</" + markTags[i].tag + ">")
		}
	}
}

func styleDecl(s Style) string {
	var parts []string
	if s.Color != "" {
		parts = append(parts, "color: "+s.Color)
	}
	if s.Background != "" {
		parts = append(parts, "background-color: "+s.Background)
	}
	if s.FontFamily != "" {
		parts = append(parts, "font-family: "+s.FontFamily)
	}
	if s.FontSize != "" {
		parts = append(parts, "font-size: "+s.FontSize)
	}
	return strings.Join(parts, "; ")
}
