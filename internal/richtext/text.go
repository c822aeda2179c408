package richtext

import (
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PlainText returns the text of the document. Blocks and list items are
// separated by newlines, table cells by tabs.
func (d *Document) PlainText() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		lines = append(lines, blockText(b)...)
	}
	return strings.Join(lines, "\n")
}

func blockText(n *Node) []string {
	switch n.Kind {
	case KindParagraph:
		return []string{inlineText(n.Children)}
	case KindList:
		var lines []string
		for _, item := range n.Children {
			var inline []*Node
			var nested []string
			for _, c := range item.Children {
				if c.Kind == KindList {
					nested = append(nested, blockText(c)...)
				} else {
					inline = append(inline, c)
				}
			}
			lines = append(lines, inlineText(inline))
			lines = append(lines, nested...)
		}
		return lines
	case KindTable:
		lines := make([]string, 0, len(n.Children))
		for _, row := range n.Children {
			cells := make([]string, 0, len(row.Children))
			for _, c := range row.Children {
				cells = append(cells, inlineText(c.Children))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
		return lines
	default:
		return nil
	}
}

func inlineText(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			b.WriteString(n.Text)
		case KindLineBreak:
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PlainText parses src and returns its plain text. Unparseable input is
// returned unchanged.
func PlainText(src string) string {
	doc, err := Parse(src)
	if err != nil {
		return src
	}
	return doc.PlainText()
}

// Excerpt returns at most max runes of text around the first case-insensitive
// occurrence of query, marking cut sides with "...". Without a match it
// returns the start of text.
func Excerpt(text, query string, max int) string {
	r := []rune(strings.Join(strings.Fields(text), " "))
	if max <= 0 {
		max = 120
	}

	if q := []rune(strings.TrimSpace(query)); len(q) > 0 {
		if idx := indexFold(r, q); idx >= 0 {
			start := idx - 40
			if start < 0 {
				start = 0
			}
			end := idx + len(q) + 80
			if end > len(r) {
				end = len(r)
			}
			if end-start > max {
				end = start + max
			}
			out := string(r[start:end])
			if start > 0 {
				out = "..." + out
			}
			if end < len(r) {
				out += "..."
			}
			return out
		}
	}

	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "..."
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of q in r, or -1.
func indexFold(r, q []rune) int {
	for i := 0; i+len(q) <= len(r); i++ {
		match := true
		for j := range q {
			if unicode.ToLower(r[i+j]) != unicode.ToLower(q[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Fold lowercases s and strips diacritics, so "Café" and "cafe" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Markdown converts note HTML to Markdown for terminal display.
func Markdown(src string) (string, error) {
	md, err := htmltomarkdown.ConvertString(src)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
