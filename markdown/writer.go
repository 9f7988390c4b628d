// Package markdown renders pandoc AST elements as Pandoc-flavoured Markdown.
package markdown

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

// Writer converts Pandoc AST elements to Markdown. It maintains state during
// conversion including block separation and collected footnotes.
type Writer struct {
	out      io.Writer           // Output writer for Markdown text
	blockSep string              // Separator to insert before next block
	notes    *[]pandoc.BlockList // Footnotes collected so far, shared with nested writers
	rawFmts  map[string]struct{} // Raw formats passed through verbatim
	bol      bool                // Next inline starts an output line
}

// NewWriter creates a new Writer instance that writes Markdown to w. Raw
// blocks and inlines in html or markdown format are copied verbatim, other
// raw formats are dropped.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		out:   w,
		notes: &[]pandoc.BlockList{},
		rawFmts: map[string]struct{}{
			"html":            {},
			"markdown":        {},
			"markdown_strict": {},
			"commonmark":      {},
			"gfm":             {},
		},
	}
}

// Render is a convenience wrapper that converts bb, footnotes included, to a
// Markdown string.
func Render(bb pandoc.BlockList) string {
	buf := &strings.Builder{}
	w := NewWriter(buf)
	w.WriteBlocks(bb)
	w.WriteNotes()
	s := buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// wr writes a string to the output writer.
func (w *Writer) wr(s string) {
	io.WriteString(w.out, s)
}

// nested renders blocks with a fresh separator state into a string. Footnotes
// found inside are collected by the parent writer.
func (w *Writer) nested(bb pandoc.BlockList) string {
	buf := &strings.Builder{}
	sw := &Writer{out: buf, notes: w.notes, rawFmts: w.rawFmts}
	sw.WriteBlocks(bb)
	return buf.String()
}

// isRaw reports whether content in the given raw format is kept.
func (w *Writer) isRaw(format string) bool {
	_, ok := w.rawFmts[strings.ToLower(format)]
	return ok
}

// indent prefixes the first line of s with first and the following lines
// with rest. Empty lines stay empty.
func indent(s, first, rest string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if l == "" {
			lines[i] = strings.TrimRight(p, " ")
		} else {
			lines[i] = p + l
		}
	}
	return strings.Join(lines, "\n")
}

// formatAttr produces the {#id .class key="val"} attribute syntax, or "" for
// an empty attribute.
func formatAttr(a pandoc.Attr) string {
	parts := []string{}
	if a.Identifier != "" {
		parts = append(parts, "#"+a.Identifier)
	}
	for _, c := range a.Classes {
		parts = append(parts, "."+c)
	}
	for _, kv := range a.KeyVals {
		parts = append(parts, kv.Key+"="+strconv.Quote(kv.Val))
	}
	if len(parts) == 0 {
		return ""
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// fence returns a run of c longer than any run of c found in s, at least n long.
func fence(s string, c byte, n int) string {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat(string(c), n)
}

// writeCodeBlock emits a fenced code block. A lone class becomes the info
// string, anything richer is written as an attribute.
func (w *Writer) writeCodeBlock(b *pandoc.CodeBlock) {
	f := fence(b.Text, '`', 3)
	w.wr(f)
	a := b.Attr
	if a.Identifier == "" && len(a.KeyVals) == 0 && len(a.Classes) == 1 {
		w.wr(a.Classes[0])
	} else if s := formatAttr(a); s != "" {
		w.wr(" " + s)
	}
	w.wr("\n")
	w.wr(b.Text)
	if b.Text != "" && !strings.HasSuffix(b.Text, "\n") {
		w.wr("\n")
	}
	w.wr(f)
}

// writeTable converts a Pandoc table to a pipe table. Cell content is
// flattened to a single line.
func (w *Writer) writeTable(table *pandoc.Table) {
	cell := func(c *pandoc.Cell) string {
		s := strings.TrimSpace(w.nested(c.Blocks))
		s = strings.ReplaceAll(s, "\n", " ")
		return strings.ReplaceAll(s, "|", `\|`)
	}
	row := func(r *pandoc.Row) string {
		cc := []string{}
		for _, c := range r.Cells {
			cc = append(cc, cell(c))
		}
		return "| " + strings.Join(cc, " | ") + " |"
	}

	ncols := len(table.ColSpecs)
	lines := []string{}
	if len(table.Head.Rows) > 0 {
		lines = append(lines, row(table.Head.Rows[0]))
	} else {
		lines = append(lines, "|"+strings.Repeat("  |", ncols))
	}
	aligns := []string{}
	for _, cs := range table.ColSpecs {
		switch cs.Alignment {
		case "AlignLeft":
			aligns = append(aligns, ":---")
		case "AlignCenter":
			aligns = append(aligns, ":---:")
		case "AlignRight":
			aligns = append(aligns, "---:")
		default:
			aligns = append(aligns, "---")
		}
	}
	lines = append(lines, "|"+strings.Join(aligns, "|")+"|")
	for _, tb := range table.Bodies {
		for _, r := range tb.Rows1 {
			lines = append(lines, row(r))
		}
		for _, r := range tb.Rows2 {
			lines = append(lines, row(r))
		}
	}
	for _, r := range table.Foot.Rows {
		lines = append(lines, row(r))
	}
	w.wr(strings.Join(lines, "\n"))

	if len(table.Caption) > 0 {
		w.wr("\n\n: ")
		w.wr(strings.TrimSpace(w.nested(table.Caption)))
	}
}

// writeBlock converts a single Pandoc block element to Markdown.
func (w *Writer) writeBlock(b pandoc.Block) {
	switch b := b.(type) {
	case *pandoc.Plain:
		w.writeLine(b.Inlines)
		w.blockSep = "\n\n"

	case *pandoc.Para:
		w.writeLine(b.Inlines)
		w.blockSep = "\n\n"

	case *pandoc.LineBlock:
		for i, ll := range b.Lines {
			if i > 0 {
				w.wr("\n")
			}
			w.wr("| ")
			w.WriteInlines(ll)
		}
		w.blockSep = "\n\n"

	case *pandoc.CodeBlock:
		w.writeCodeBlock(b)
		w.blockSep = "\n\n"

	case *pandoc.RawBlock:
		if w.isRaw(b.Format) {
			w.wr(strings.TrimRight(b.Text, "\n"))
			w.blockSep = "\n\n"
		}

	case *pandoc.BlockQuote:
		w.wr(indent(w.nested(b.Blocks), "> ", "> "))
		w.blockSep = "\n\n"

	case *pandoc.OrderedList:
		start := b.StartNumber
		if start == 0 {
			start = 1
		}
		items := []string{}
		for i, bb := range b.Items {
			marker := strconv.Itoa(start+i) + ". "
			if b.NumberDelim == "OneParen" {
				marker = strconv.Itoa(start+i) + ") "
			}
			items = append(items, indent(w.nested(bb), marker, strings.Repeat(" ", len(marker))))
		}
		w.wr(strings.Join(items, "\n"))
		w.blockSep = "\n\n"

	case *pandoc.BulletList:
		items := []string{}
		for _, bb := range b.Items {
			items = append(items, indent(w.nested(bb), "- ", "  "))
		}
		w.wr(strings.Join(items, "\n"))
		w.blockSep = "\n\n"

	case *pandoc.DefinitionList:
		for i, item := range b.Items {
			if i > 0 {
				w.wr("\n\n")
			}
			w.writeLine(item.Term)
			for _, bb := range item.Definitions {
				w.wr("\n")
				w.wr(indent(w.nested(bb), ":   ", "    "))
			}
		}
		w.blockSep = "\n\n"

	case *pandoc.Header:
		w.wr(strings.Repeat("#", b.Level) + " ")
		w.WriteInlines(b.Inlines)
		if b.Attr.Identifier != "" || len(b.Attr.Classes) > 0 {
			w.wr(" " + formatAttr(b.Attr))
		}
		w.blockSep = "\n\n"

	case *pandoc.HorizontalRule:
		w.wr("---")
		w.blockSep = "\n\n"

	case *pandoc.Table:
		w.writeTable(b)
		w.blockSep = "\n\n"

	case *pandoc.Figure:
		w.wr(strings.TrimRight(w.nested(b.Blocks), "\n"))
		w.blockSep = "\n\n"

	case *pandoc.Div:
		attr := formatAttr(b.Attr)
		inner := strings.TrimRight(w.nested(b.Blocks), "\n")
		if attr == "" {
			w.wr(inner)
		} else {
			w.wr("::: " + attr + "\n")
			if inner != "" {
				w.wr(inner + "\n")
			}
			w.wr(":::")
		}
		w.blockSep = "\n\n"
	}
}

// WriteBlocks converts a sequence of Pandoc blocks to Markdown, inserting
// appropriate block separators between elements.
func (w *Writer) WriteBlocks(bb []pandoc.Block) {
	for _, b := range bb {
		w.wr(w.blockSep)
		w.blockSep = ""
		w.writeBlock(b)
	}
}

// WriteNotes emits the footnote definitions referenced so far.
func (w *Writer) WriteNotes() {
	for i, bb := range *w.notes {
		w.wr(w.blockSep)
		body := w.nested(bb)
		w.wr(indent(body, fmt.Sprintf("[^%d]: ", i+1), "    "))
		w.blockSep = "\n\n"
	}
}

// FlattenInlines converts a list of inline elements to plain text without
// any markup. It is used for link labels and similar single line contexts.
func FlattenInlines(ll pandoc.InlineList) string {
	buf := &strings.Builder{}
	for _, l := range ll {
		switch l := l.(type) {
		case *pandoc.Space:
			buf.WriteString(" ")
		case *pandoc.SoftBreak, *pandoc.LineBreak:
			buf.WriteString(" ")
		case *pandoc.Str:
			buf.WriteString(l.Text)
		case *pandoc.Code:
			buf.WriteString(l.Text)
		case *pandoc.Math:
			buf.WriteString(l.Text)
		case *pandoc.Formatted:
			buf.WriteString(FlattenInlines(l.Content))
		case *pandoc.Quoted:
			buf.WriteString(FlattenInlines(l.Content))
		case *pandoc.Span:
			buf.WriteString(FlattenInlines(l.Content))
		case *pandoc.Link:
			buf.WriteString(FlattenInlines(l.Content))
		case *pandoc.RawInline:
			buf.WriteString(l.Text)
		}
	}
	return buf.String()
}

// writeCode emits an inline code span with a backtick fence that does not
// clash with the content.
func (w *Writer) writeCode(s string) {
	f := fence(s, '`', 1)
	pad := ""
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		pad = " "
	}
	w.wr(f + pad + s + pad + f)
}

// writeTarget emits the (url "title") part of links and images.
func (w *Writer) writeTarget(t pandoc.Target) {
	w.wr("(" + t.URL)
	if t.Title != "" {
		w.wr(" " + strconv.Quote(t.Title))
	}
	w.wr(")")
}

// writeLine writes inlines that begin a new output line.
func (w *Writer) writeLine(ll pandoc.InlineList) {
	w.bol = true
	w.WriteInlines(ll)
	w.bol = false
}

// WriteInlines converts a list of Pandoc inline elements to Markdown.
func (w *Writer) WriteInlines(ll pandoc.InlineList) {
	for _, l := range ll {
		bol := w.bol
		w.bol = false
		switch l := l.(type) {
		case *pandoc.Space:
			w.wr(" ")
			w.bol = bol

		case *pandoc.SoftBreak:
			w.wr("\n")
			w.bol = true

		case *pandoc.LineBreak:
			w.wr("\\\n")
			w.bol = true

		case *pandoc.Str:
			w.wr(escapeText(l.Text, bol))
			w.bol = strings.HasSuffix(l.Text, "\n")

		case *pandoc.Formatted:
			pre, post := markdownFmt(l.Fmt)
			w.wr(pre)
			w.WriteInlines(l.Content)
			w.wr(post)

		case *pandoc.Quoted:
			q := `"`
			if l.QuoteType == "SingleQuote" {
				q = "'"
			}
			w.wr(q)
			w.WriteInlines(l.Content)
			w.wr(q)

		case *pandoc.Cite:
			w.WriteInlines(l.Content)

		case *pandoc.Code:
			w.writeCode(l.Text)

		case *pandoc.Math:
			if l.Type == "DisplayMath" {
				w.wr("$$" + l.Text + "$$")
			} else {
				w.wr("$" + l.Text + "$")
			}

		case *pandoc.RawInline:
			if w.isRaw(l.Format) {
				w.wr(l.Text)
			}

		case *pandoc.Image:
			w.wr("![")
			w.WriteInlines(l.Content)
			w.wr("]")
			w.writeTarget(l.Target)

		case *pandoc.Link:
			if FlattenInlines(l.Content) == l.Target.URL && l.Target.Title == "" {
				w.wr("<" + l.Target.URL + ">")
				break
			}
			w.wr("[")
			w.WriteInlines(l.Content)
			w.wr("]")
			w.writeTarget(l.Target)

		case *pandoc.Note:
			*w.notes = append(*w.notes, l.Blocks)
			w.wr(fmt.Sprintf("[^%d]", len(*w.notes)))

		case *pandoc.Span:
			attr := formatAttr(l.Attr)
			if attr == "" {
				w.WriteInlines(l.Content)
				break
			}
			w.wr("[")
			w.WriteInlines(l.Content)
			w.wr("]" + attr)
		}
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`$`, `\$`,
)

// EscapeStr escapes characters that would otherwise start Markdown markup.
func EscapeStr(s string) string {
	if strings.ContainsAny(s, "\\*_`[]<$") {
		s = escaper.Replace(s)
	}
	return s
}

// escapeText escapes s for inline use. Lines of s that start an output line
// also get their leading block marker escaped.
func escapeText(s string, bol bool) string {
	s = EscapeStr(s)
	if !bol && !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == 0 && !bol {
			continue
		}
		rest := strings.TrimLeft(l, " ")
		if n := len(l) - len(rest); n < 4 {
			lines[i] = l[:n] + EscapeLineStart(rest)
		}
	}
	return strings.Join(lines, "\n")
}

// EscapeLineStart escapes a leading marker that would turn a line of text
// into a header, quote, list item, line block or setext underline.
func EscapeLineStart(s string) string {
	if s == "" {
		return s
	}
	spaceOrEnd := func(i int) bool {
		return i >= len(s) || s[i] == ' ' || s[i] == '\t'
	}
	c := s[0]
	switch {
	case c == '#' || c == '>' || c == '|':
		return `\` + s
	case c == '-' || c == '+' || c == '=':
		if spaceOrEnd(1) || strings.Trim(strings.TrimRight(s, " "), string(c)) == "" {
			return `\` + s
		}
	case c == '(':
		if i := strings.IndexByte(s, ')'); i > 1 && i <= 10 && isAlnum(s[1:i]) && spaceOrEnd(i+1) {
			return `\` + s
		}
	default:
		// 1. 1) a. a)
		i := 0
		for i < len(s) && i < 9 && isDigit(s[i]) {
			i++
		}
		if i == 0 && isLetter(c) {
			i = 1
		}
		if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') && spaceOrEnd(i+1) {
			return s[:i] + `\` + s[i:]
		}
	}
	return s
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// markdownFmt returns the opening and closing markup for an inline format type.
func markdownFmt(f pandoc.InlineFmt) (string, string) {
	switch f {
	case pandoc.Emph:
		return "*", "*"
	case pandoc.Strong:
		return "**", "**"
	case pandoc.Underline:
		return "[", "]{.underline}"
	case pandoc.Strikeout:
		return "~~", "~~"
	case pandoc.Superscript:
		return "^", "^"
	case pandoc.Subscript:
		return "~", "~"
	case pandoc.SmallCaps:
		return "[", "]{.smallcaps}"
	default:
		return "", ""
	}
}
