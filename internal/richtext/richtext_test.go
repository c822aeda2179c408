package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	require.NoError(t, err)
	return doc
}

func TestParse_CanonicalHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Packed bags", "<p>Packed bags</p>"},
		{"paragraphs", "<p>one</p><p>two</p>", "<p>one</p><p>two</p>"},
		{"div becomes paragraph", "<div>hello</div>", "<p>hello</p>"},
		{"empty paragraph", "<p><br></p>", "<p><br></p>"},
		{"bold synonyms", "<b>a</b><strong>b</strong>", "<p><strong>ab</strong></p>"},
		{"nested marks", "<i><b>x</b></i>", "<p><strong><em>x</em></strong></p>"},
		{"strike synonyms", "<del>a</del><strike>b</strike>", "<p><s>ab</s></p>"},
		{"heading is bold", "<h2>Title</h2>", "<p><strong>Title</strong></p>"},
		{"alignment", `<p style="text-align:center">c</p>`, `<p style="text-align: center">c</p>`},
		{"align attribute", `<div align="right">r</div>`, `<p style="text-align: right">r</p>`},
		{"line break", "a<br>b", "<p>a<br>b</p>"},
		{"trailing break kept", "<p>a<br><br></p>", "<p>a<br><br></p>"},
		{"whitespace collapsed", "<p>a \n\t b</p>", "<p>a b</p>"},
		{"font color", `<font color="#ef4444">red</font>`, `<p><span style="color: #ef4444">red</span></p>`},
		{"font size", `<font size="5">big</font>`, `<p><span style="font-size: x-large">big</span></p>`},
		{"span styles", `<span style="background-color: #fef08a; font-family: Georgia, serif">hi</span>`,
			`<p><span style="background-color: #fef08a; font-family: Georgia, serif">hi</span></p>`},
		{"css marks", `<span style="font-weight: 700; font-style: italic">x</span>`, "<p><strong><em>x</em></strong></p>"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered list", "<ol><li>a</li></ol>", "<ol><li>a</li></ol>"},
		{"empty list item", "<ul><li><br></li></ul>", "<ul><li><br></li></ul>"},
		{"nested list", "<ul><li>a<ul><li>b</li></ul></li></ul>", "<ul><li>a<ul><li>b</li></ul></li></ul>"},
		{"table", "<table><tr><th>H</th></tr><tr><td>c</td></tr></table>",
			"<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>c</td></tr></tbody></table>"},
		{"empty cell", "<table><tbody><tr><td></td></tr></tbody></table>",
			"<table><tbody><tr><td><br></td></tr></tbody></table>"},
		{"paragraphs in list item", "<ol><li><p>x</p><p>y</p></li></ol>", "<ol><li>x<br>y</li></ol>"},
		{"table in list item", "<ul><li>one<table><tr><td>c</td></tr></table></li></ul>", "<ul><li>one<br>c</li></ul>"},
		{"table in cell", "<table><tr><td>a<table><tr><td>inner</td><td>more</td></tr></table></td></tr></table>",
			"<table><tbody><tr><td>a<br>inner<br>more</td></tr></tbody></table>"},
		{"text after block in cell", "<table><tr><td><p>a</p>\n<p>b</p>c</td></tr></table>",
			"<table><tbody><tr><td>a<br>b<br>c</td></tr></tbody></table>"},
		{"text around blocks", "intro<ul><li>x</li></ul>outro", "<p>intro</p><ul><li>x</li></ul><p>outro</p>"},
		{"div wrapping blocks", "<div><p>a</p><p>b</p></div>", "<p>a</p><p>b</p>"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.in).HTML())
		})
	}
}

func TestParse_Sanitizes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script dropped", `<p>hi<script>alert(1)</script></p>`, "<p>hi</p>"},
		{"style dropped", `<style>p{color:red}</style><p>x</p>`, "<p>x</p>"},
		{"iframe dropped", `<iframe src="https://example.com"></iframe><p>x</p>`, "<p>x</p>"},
		{"unknown tag unwrapped", `<p><custom-tag>kept</custom-tag></p>`, "<p>kept</p>"},
		{"link unwrapped", `<p><a href="javascript:alert(1)">click</a></p>`, "<p>click</p>"},
		{"event handler dropped", `<p onclick="alert(1)">x</p>`, "<p>x</p>"},
		{"url in style rejected", `<span style="background-color: url(http://x/y.png)">x</span>`, "<p>x</p>"},
		{"expression rejected", `<span style="color: expression(alert(1))">x</span>`, "<p>x</p>"},
		{"rgb allowed", `<span style="color: rgb(1, 2, 3)">x</span>`, `<p><span style="color: rgb(1, 2, 3)">x</span></p>`},
		{"text escaped", `<p>a &lt;b&gt; &amp; c</p>`, "<p>a &lt;b&gt; &amp; c</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(t, tt.in).HTML())
		})
	}
}

func TestHTML_RoundTripIsStable(t *testing.T) {
	inputs := []string{
		`<p>a<br><br></p><p><br></p>`,
		`<span style="font-family: &quot;Courier New&quot;, monospace">mono</span>`,
		`<ul><li><br><ul><li>deep</li></ul></li></ul>`,
		`<table><tr><th>a</th><th>b</th></tr><tr><td>1<br></td><td></td></tr></table>`,
		`<h1 style="text-align: justify">x</h1><b><i><u>y</u></i></b><sub>2</sub>`,
	}
	for _, in := range inputs {
		first := mustParse(t, in).HTML()
		second := mustParse(t, first).HTML()
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestParse_KeepsEveryWord(t *testing.T) {
	inputs := []string{
		"<ol><li><p>alpha</p><p>beta</p></li></ol>",
		"<ul><li>one<table><tr><td>two</td><td>three</td></tr></table>four</li></ul>",
		"<table><tr><td>outer<table><tr><td>inner</td></tr></table></td></tr></table>",
		"<table><tr><td><ul><li>left</li><li>right</li></ul></td></tr></table>",
		"<ul><li><div><p>deep</p><span>text</span></div></li></ul>",
	}
	for _, in := range inputs {
		first := mustParse(t, in).HTML()
		assert.Equal(t, first, mustParse(t, first).HTML(), "unstable for %q", in)
		assert.Equal(t, strings.Fields(PlainText(in)), strings.Fields(PlainText(first)), "input %q", in)
		for _, word := range htmlWords(in) {
			assert.Contains(t, strings.Fields(PlainText(first)), word, "input %q", in)
		}
	}
}

// htmlWords returns the words of src outside its tags.
func htmlWords(src string) []string {
	var (
		words []string
		inTag bool
		word  strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	for _, r := range src {
		switch {
		case r == '<':
			flush()
			inTag = true
		case r == '>':
			inTag = false
		case !inTag && r != ' ':
			word.WriteRune(r)
		}
	}
	flush()
	return words
}

func TestPlainText(t *testing.T) {
	doc := mustParse(t, `<p>Day <b>one</b><br>packed</p><ul><li>socks</li><li>hat</li></ul>`+
		`<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>`)

	assert.Equal(t, "Day one\npacked\nsocks\nhat\na\tb\n1\t2", doc.PlainText())
	assert.Equal(t, "x", PlainText("<p>x</p>"))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, mustParse(t, "").IsEmpty())
	assert.True(t, mustParse(t, "<p><br></p>").IsEmpty())
	assert.True(t, mustParse(t, "<p>   </p>").IsEmpty())
	assert.False(t, mustParse(t, "<p>x</p>").IsEmpty())
	assert.False(t, mustParse(t, "<table><tr><td></td></tr></table>").IsEmpty())
}

func TestFromPlainText(t *testing.T) {
	doc := FromPlainText("first\r\n\nthird\n\n")
	assert.Equal(t, "<p>first</p><p><br></p><p>third</p>", doc.HTML())
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 100) + " Needle " + strings.Repeat("b", 100)

	got := Excerpt(long, "needle", 120)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Contains(t, got, "Needle")

	assert.Equal(t, "short text", Excerpt("short  text", "missing", 120))
	assert.Equal(t, strings.Repeat("x", 120)+"...", Excerpt(strings.Repeat("x", 200), "", 120))
	assert.Equal(t, "Café au lait", Excerpt("Café au lait", "CAFÉ", 120))
}

func TestExcerpt_MultibyteBoundaries(t *testing.T) {
	got := Excerpt(strings.Repeat("é", 10), "", 4)
	assert.Equal(t, "éééé...", got)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe creme", Fold("Café Crème"))
	assert.Equal(t, "naive", Fold("NAÏVE"))
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown("<p><strong>Trip</strong> notes</p><ul><li>bags</li></ul>")
	require.NoError(t, err)
	assert.Contains(t, md, "**Trip** notes")
	assert.Contains(t, md, "bags")
}
