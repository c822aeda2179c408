package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleMark(t *testing.T) {
	doc := mustParse(t, "<p>hello world</p>")

	require.NoError(t, doc.ToggleMark(Span{Block: 0, Start: 0, End: 5}, MarkBold))
	assert.Equal(t, "<p><strong>hello</strong> world</p>", doc.HTML())

	// Every selected run is bold, so the toggle removes it.
	require.NoError(t, doc.ToggleMark(Span{Block: 0, Start: 0, End: 5}, MarkBold))
	assert.Equal(t, "<p>hello world</p>", doc.HTML())
}

func TestToggleMark_PartiallyMarkedAddsEverywhere(t *testing.T) {
	doc := mustParse(t, "<p><em>he</em>llo</p>")

	require.NoError(t, doc.ToggleMark(Span{Block: 0, Start: 0, End: -1}, MarkItalic))
	assert.Equal(t, "<p><em>hello</em></p>", doc.HTML())
}

func TestToggleMark_CountsLineBreaks(t *testing.T) {
	doc := mustParse(t, "<p>ab<br>cd</p>")

	require.NoError(t, doc.ToggleMark(Span{Block: 0, Start: 3, End: 5}, MarkUnderline))
	assert.Equal(t, "<p>ab<br><u>cd</u></p>", doc.HTML())
}

func TestToggleMark_SubAndSupExclusive(t *testing.T) {
	doc := mustParse(t, "<p><sup>2</sup></p>")

	require.NoError(t, doc.ToggleMark(Span{Block: 0, Start: 0, End: 1}, MarkSub))
	assert.Equal(t, "<p><sub>2</sub></p>", doc.HTML())
}

func TestToggleMark_Errors(t *testing.T) {
	doc := mustParse(t, "<p>abc</p><ul><li>x</li></ul>")

	assert.ErrorIs(t, doc.ToggleMark(Span{Block: 5}, MarkBold), ErrNoBlock)
	assert.ErrorIs(t, doc.ToggleMark(Span{Block: 1, End: 1}, MarkBold), ErrNotParagraph)
	assert.ErrorIs(t, doc.ToggleMark(Span{Block: 0, Start: 2, End: 9}, MarkBold), ErrInvalidSpan)
	assert.ErrorIs(t, doc.ToggleMark(Span{Block: 0, Start: 2, End: 1}, MarkBold), ErrInvalidSpan)
}

func TestApplyStyle(t *testing.T) {
	doc := mustParse(t, "<p>red and plain</p>")

	require.NoError(t, doc.ApplyStyle(Span{Block: 0, Start: 0, End: 3}, StyleColor, "#ef4444"))
	assert.Equal(t, `<p><span style="color: #ef4444">red</span> and plain</p>`, doc.HTML())

	require.NoError(t, doc.ApplyStyle(Span{Block: 0, Start: 0, End: 3}, StyleColor, ""))
	assert.Equal(t, "<p>red and plain</p>", doc.HTML())
}

func TestApplyStyle_TransparentHighlightClears(t *testing.T) {
	doc := mustParse(t, `<p><span style="background-color: #fef08a">hi</span></p>`)

	require.NoError(t, doc.ApplyStyle(Span{Block: 0, End: -1}, StyleBackground, "transparent"))
	assert.Equal(t, "<p>hi</p>", doc.HTML())
}

func TestApplyStyle_RejectsUnsafeValues(t *testing.T) {
	doc := mustParse(t, "<p>x</p>")

	assert.ErrorIs(t, doc.ApplyStyle(Span{Block: 0, End: -1}, StyleColor, "url(evil)"), ErrInvalidStyle)
	assert.ErrorIs(t, doc.ApplyStyle(Span{Block: 0, End: -1}, StyleAttr("border"), "1px"), ErrInvalidStyle)
}

func TestClearFormatting(t *testing.T) {
	doc := mustParse(t, `<ul><li><b>a</b><span style="color: red">b</span></li></ul>`)

	require.NoError(t, doc.ClearFormatting(0))
	assert.Equal(t, "<ul><li>ab</li></ul>", doc.HTML())
}

func TestSetAlign(t *testing.T) {
	doc := mustParse(t, "<p>x</p>")

	require.NoError(t, doc.SetAlign(0, AlignRight))
	assert.Equal(t, `<p style="text-align: right">x</p>`, doc.HTML())
}

func TestToggleList(t *testing.T) {
	doc := mustParse(t, "<p>item</p>")

	require.NoError(t, doc.ToggleList(0, false))
	assert.Equal(t, "<ul><li>item</li></ul>", doc.HTML())

	require.NoError(t, doc.ToggleList(0, true))
	assert.Equal(t, "<ol><li>item</li></ol>", doc.HTML())

	require.NoError(t, doc.ToggleList(0, true))
	assert.Equal(t, "<p>item</p>", doc.HTML())
}

func TestToggleList_UnwrapsNestedItems(t *testing.T) {
	doc := mustParse(t, "<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>")

	require.NoError(t, doc.ToggleList(0, false))
	assert.Equal(t, "<p>a</p><p>b</p><p>c</p>", doc.HTML())
}

func TestInsertTable(t *testing.T) {
	doc := mustParse(t, "<p>before</p>")

	at, err := doc.InsertTable(10, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, at)
	assert.Equal(t, "<p>before</p><table><thead><tr><th>Header 1</th><th>Header 2</th><th>Header 3</th></tr></thead>"+
		"<tbody><tr><td><br></td><td><br></td><td><br></td></tr><tr><td><br></td><td><br></td><td><br></td></tr></tbody></table>",
		doc.HTML())

	_, err = doc.InsertTable(0, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestTableRows(t *testing.T) {
	doc := &Document{}
	_, err := doc.InsertTable(0, 2, 1)
	require.NoError(t, err)

	require.NoError(t, doc.AddRowBelow(Cell{Block: 0, Row: 1, Col: 0}))
	require.NoError(t, doc.AddRowAbove(Cell{Block: 0, Row: 0, Col: 0}))
	table := doc.Blocks[0]
	require.Len(t, table.Children, 4)
	assert.Equal(t, KindHeaderCell, table.Children[0].Children[0].Kind)
	assert.Empty(t, table.Children[0].Children[0].Children)
	assert.Equal(t, KindCell, table.Children[3].Children[1].Kind)

	for len(table.Children) > 1 {
		require.NoError(t, doc.DeleteRow(Cell{Block: 0, Row: 0, Col: 0}))
	}
	assert.ErrorIs(t, doc.DeleteRow(Cell{Block: 0, Row: 0, Col: 0}), ErrLastRow)
}

func TestTableColumns(t *testing.T) {
	doc := &Document{}
	_, err := doc.InsertTable(0, 1, 1)
	require.NoError(t, err)

	require.NoError(t, doc.AddColumnRight(Cell{Block: 0, Row: 1, Col: 0}))
	require.NoError(t, doc.AddColumnLeft(Cell{Block: 0, Row: 0, Col: 0}))
	assert.Equal(t, "<table><thead><tr><th>Header</th><th>Header 1</th><th>Header</th></tr></thead>"+
		"<tbody><tr><td><br></td><td><br></td><td><br></td></tr></tbody></table>", doc.HTML())

	require.NoError(t, doc.DeleteColumn(Cell{Block: 0, Row: 0, Col: 0}))
	require.NoError(t, doc.DeleteColumn(Cell{Block: 0, Row: 1, Col: 1}))
	assert.ErrorIs(t, doc.DeleteColumn(Cell{Block: 0, Row: 0, Col: 0}), ErrLastColumn)
	assert.Equal(t, "<table><thead><tr><th>Header 1</th></tr></thead><tbody><tr><td><br></td></tr></tbody></table>", doc.HTML())
}

func TestTableCommands_Errors(t *testing.T) {
	doc := mustParse(t, "<p>x</p>")

	assert.ErrorIs(t, doc.AddRowBelow(Cell{Block: 0}), ErrNotTable)
	assert.ErrorIs(t, doc.DeleteTable(0), ErrNotTable)

	_, err := doc.InsertTable(1, 2, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, doc.AddColumnLeft(Cell{Block: 1, Row: 3}), ErrInvalidCell)
	assert.ErrorIs(t, doc.DeleteRow(Cell{Block: 1, Row: 0, Col: 9}), ErrInvalidCell)

	require.NoError(t, doc.DeleteTable(1))
	assert.Len(t, doc.Blocks, 1)
}

func TestPalettes(t *testing.T) {
	assert.Len(t, TextColors, 15)
	assert.Equal(t, "transparent", HighlightColors[0].Value)
	assert.Equal(t, `"Courier New", monospace`, LookupSwatch(Fonts, "Courier New"))
	assert.Equal(t, "#123456", LookupSwatch(TextColors, "#123456"))
	assert.Contains(t, FontSizes, 16)
}
