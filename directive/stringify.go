package directive

import (
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

// Stringify flattens x into text. Str, Code and Math contribute their text,
// Space a blank, LineBreak and SoftBreak a newline and a DefinitionList a
// single newline without looking inside it. All other elements contribute
// nothing themselves but their content is still visited. x may be a block,
// an inline, or a list of either.
func Stringify(x any) string {
	buf := &strings.Builder{}
	stringifyTo(buf, x)
	return buf.String()
}

// StringifyBlocks is like Stringify but separates the top level blocks of bb
// with an empty line, so paragraphs of a directive body do not run together.
func StringifyBlocks(bb pandoc.BlockList) string {
	parts := make([]string, 0, len(bb))
	for _, b := range bb {
		parts = append(parts, Stringify(b))
	}
	return strings.Join(parts, "\n\n")
}

func stringifyTo(buf *strings.Builder, x any) {
	switch x := x.(type) {
	case nil:
	case pandoc.BlockList:
		for _, b := range x {
			stringifyTo(buf, b)
		}
	case []pandoc.BlockList:
		for _, bb := range x {
			stringifyTo(buf, bb)
		}
	case pandoc.InlineList:
		for _, l := range x {
			stringifyTo(buf, l)
		}
	case []pandoc.InlineList:
		for _, ll := range x {
			stringifyTo(buf, ll)
		}

	// inlines
	case *pandoc.Str:
		buf.WriteString(x.Text)
	case *pandoc.Formatted:
		stringifyTo(buf, x.Content)
	case *pandoc.Code:
		buf.WriteString(x.Text)
	case *pandoc.Math:
		buf.WriteString(x.Text)
	case *pandoc.LineBreak, *pandoc.SoftBreak:
		buf.WriteString("\n")
	case *pandoc.Space:
		buf.WriteString(" ")
	case *pandoc.Quoted:
		stringifyTo(buf, x.Content)
	case *pandoc.Cite:
		stringifyTo(buf, x.Content)
	case *pandoc.Link:
		stringifyTo(buf, x.Content)
	case *pandoc.Image:
		stringifyTo(buf, x.Content)
	case *pandoc.Span:
		stringifyTo(buf, x.Content)
	case *pandoc.Note:
		stringifyTo(buf, x.Blocks)

	// blocks
	case *pandoc.DefinitionList:
		buf.WriteString("\n")
	case *pandoc.Plain:
		stringifyTo(buf, x.Inlines)
	case *pandoc.Para:
		stringifyTo(buf, x.Inlines)
	case *pandoc.LineBlock:
		stringifyTo(buf, x.Lines)
	case *pandoc.Header:
		stringifyTo(buf, x.Inlines)
	case *pandoc.BlockQuote:
		stringifyTo(buf, x.Blocks)
	case *pandoc.OrderedList:
		stringifyTo(buf, x.Items)
	case *pandoc.BulletList:
		stringifyTo(buf, x.Items)
	case *pandoc.Div:
		stringifyTo(buf, x.Blocks)
	case *pandoc.Figure:
		stringifyTo(buf, x.Caption)
		stringifyTo(buf, x.Blocks)
	case *pandoc.Table:
		stringifyTo(buf, x.Caption)
		stringifyRows(buf, x.Head.Rows)
		for _, tb := range x.Bodies {
			stringifyRows(buf, tb.Rows1)
			stringifyRows(buf, tb.Rows2)
		}
		stringifyRows(buf, x.Foot.Rows)
	}
}

func stringifyRows(buf *strings.Builder, rr []*pandoc.Row) {
	for _, r := range rr {
		for _, c := range r.Cells {
			stringifyTo(buf, c.Blocks)
		}
	}
}
