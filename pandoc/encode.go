package pandoc

import (
	"encoding/json"
	"fmt"
)

// DefaultApiVersion is written when a document carries no version of its own.
var DefaultApiVersion = json.RawMessage(`[1,23,1]`)

// Encode serializes the document with the given block flow in place of the
// original blocks. Metadata and the API version are written unchanged.
func (d *Document) Encode(bb BlockList) ([]byte, error) {
	out := struct {
		PandocApiVersion json.RawMessage        `json:"pandoc-api-version"`
		Meta             map[string]interface{} `json:"meta"`
		Blocks           []interface{}          `json:"blocks"`
	}{
		PandocApiVersion: d.PandocApiVersion,
		Meta:             d.Meta,
		Blocks:           storeBlockSlice(bb),
	}
	if len(out.PandocApiVersion) == 0 {
		out.PandocApiVersion = DefaultApiVersion
	}
	if out.Meta == nil {
		out.Meta = map[string]interface{}{}
	}
	return json.Marshal(out)
}

// EncodeBlock serializes a single block into its (t,c) JSON form.
func EncodeBlock(b Block) ([]byte, error) {
	v := storeBlock(b)
	if v == nil {
		return nil, fmt.Errorf("cannot encode %T", b)
	}
	return json.Marshal(v)
}

func tc(t string, c interface{}) map[string]interface{} {
	return map[string]interface{}{"t": t, "c": c}
}

func tag(t string) map[string]interface{} {
	return map[string]interface{}{"t": t}
}

func storeAttr(a Attr) []interface{} {
	classes := make([]interface{}, 0, len(a.Classes))
	for _, c := range a.Classes {
		classes = append(classes, c)
	}
	kvs := make([]interface{}, 0, len(a.KeyVals))
	for _, kv := range a.KeyVals {
		kvs = append(kvs, []interface{}{kv.Key, kv.Val})
	}
	return []interface{}{a.Identifier, classes, kvs}
}

func storeBlockSlice(bb BlockList) []interface{} {
	ret := make([]interface{}, 0, len(bb))
	for _, b := range bb {
		if v := storeBlock(b); v != nil {
			ret = append(ret, v)
		}
	}
	return ret
}

func storeBlockSliceSlice(bbb []BlockList) []interface{} {
	ret := make([]interface{}, 0, len(bbb))
	for _, bb := range bbb {
		ret = append(ret, storeBlockSlice(bb))
	}
	return ret
}

func storeCaption(short InlineList, long BlockList) []interface{} {
	var s interface{}
	if short != nil {
		s = storeInlineSlice(short)
	}
	return []interface{}{s, storeBlockSlice(long)}
}

func storeRows(rr []*Row) []interface{} {
	ret := make([]interface{}, 0, len(rr))
	for _, r := range rr {
		cells := make([]interface{}, 0, len(r.Cells))
		for _, c := range r.Cells {
			cells = append(cells, []interface{}{
				storeAttr(c.Attr), tag(c.Alignment), c.RowSpan, c.ColSpan, storeBlockSlice(c.Blocks),
			})
		}
		ret = append(ret, []interface{}{storeAttr(r.Attr), cells})
	}
	return ret
}

func storeTable(t *Table) []interface{} {
	specs := make([]interface{}, 0, len(t.ColSpecs))
	for _, c := range t.ColSpecs {
		var w interface{} = tag("ColWidthDefault")
		if c.ColWidth > 0 {
			w = tc("ColWidth", c.ColWidth)
		}
		specs = append(specs, []interface{}{tag(c.Alignment), w})
	}
	bodies := make([]interface{}, 0, len(t.Bodies))
	for _, b := range t.Bodies {
		bodies = append(bodies, []interface{}{
			storeAttr(b.Attr), b.RowHeadColumns, storeRows(b.Rows1), storeRows(b.Rows2),
		})
	}
	return []interface{}{
		storeAttr(t.Attr),
		storeCaption(t.ShortCaption, t.Caption),
		specs,
		[]interface{}{storeAttr(t.Head.Attr), storeRows(t.Head.Rows)},
		bodies,
		[]interface{}{storeAttr(t.Foot.Attr), storeRows(t.Foot.Rows)},
	}
}

func storeBlock(b Block) interface{} {
	switch b := b.(type) {
	case *Plain:
		return tc("Plain", storeInlineSlice(b.Inlines))
	case *Para:
		return tc("Para", storeInlineSlice(b.Inlines))
	case *LineBlock:
		lines := make([]interface{}, 0, len(b.Lines))
		for _, l := range b.Lines {
			lines = append(lines, storeInlineSlice(l))
		}
		return tc("LineBlock", lines)
	case *CodeBlock:
		return tc("CodeBlock", []interface{}{storeAttr(b.Attr), b.Text})
	case *RawBlock:
		return tc("RawBlock", []interface{}{b.Format, b.Text})
	case *BlockQuote:
		return tc("BlockQuote", storeBlockSlice(b.Blocks))
	case *OrderedList:
		style, delim := b.NumberStyle, b.NumberDelim
		if style == "" {
			style = "Decimal"
		}
		if delim == "" {
			delim = "Period"
		}
		start := b.StartNumber
		if start == 0 {
			start = 1
		}
		return tc("OrderedList", []interface{}{
			[]interface{}{start, tag(style), tag(delim)},
			storeBlockSliceSlice(b.Items),
		})
	case *BulletList:
		return tc("BulletList", storeBlockSliceSlice(b.Items))
	case *DefinitionList:
		items := make([]interface{}, 0, len(b.Items))
		for _, i := range b.Items {
			items = append(items, []interface{}{storeInlineSlice(i.Term), storeBlockSliceSlice(i.Definitions)})
		}
		return tc("DefinitionList", items)
	case *Header:
		return tc("Header", []interface{}{b.Level, storeAttr(b.Attr), storeInlineSlice(b.Inlines)})
	case *HorizontalRule:
		return tag("HorizontalRule")
	case *Table:
		return tc("Table", storeTable(b))
	case *Figure:
		return tc("Figure", []interface{}{
			storeAttr(b.Attr), storeCaption(b.ShortCaption, b.Caption), storeBlockSlice(b.Blocks),
		})
	case *Div:
		return tc("Div", []interface{}{storeAttr(b.Attr), storeBlockSlice(b.Blocks)})
	case *UnknownBlock:
		return storeUnknown(b.T, b.Raw)
	}
	return nil
}

func storeUnknown(t string, raw interface{}) interface{} {
	if raw == nil {
		return tag(t)
	}
	return tc(t, raw)
}

func storeInlineSlice(ll InlineList) []interface{} {
	ret := make([]interface{}, 0, len(ll))
	for _, l := range ll {
		if v := storeInline(l); v != nil {
			ret = append(ret, v)
		}
	}
	return ret
}

func storeTarget(t Target) []interface{} {
	return []interface{}{t.URL, t.Title}
}

func storeInline(l Inline) interface{} {
	switch l := l.(type) {
	case *Str:
		return tc("Str", l.Text)
	case *Formatted:
		return tc(l.Fmt.String(), storeInlineSlice(l.Content))
	case *Quoted:
		return tc("Quoted", []interface{}{tag(l.QuoteType), storeInlineSlice(l.Content)})
	case *Cite:
		cc := make([]interface{}, 0, len(l.Citations))
		for _, c := range l.Citations {
			cc = append(cc, map[string]interface{}{
				"citationId":      c.Id,
				"citationPrefix":  storeInlineSlice(c.Prefix),
				"citationSuffix":  storeInlineSlice(c.Suffix),
				"citationMode":    tag(c.Mode),
				"citationNoteNum": c.NoteNum,
				"citationHash":    c.Hash,
			})
		}
		return tc("Cite", []interface{}{cc, storeInlineSlice(l.Content)})
	case *Code:
		return tc("Code", []interface{}{storeAttr(l.Attr), l.Text})
	case *Space:
		return tag("Space")
	case *SoftBreak:
		return tag("SoftBreak")
	case *LineBreak:
		return tag("LineBreak")
	case *Math:
		return tc("Math", []interface{}{tag(l.Type), l.Text})
	case *RawInline:
		return tc("RawInline", []interface{}{l.Format, l.Text})
	case *Link:
		return tc("Link", []interface{}{storeAttr(l.Attr), storeInlineSlice(l.Content), storeTarget(l.Target)})
	case *Image:
		return tc("Image", []interface{}{storeAttr(l.Attr), storeInlineSlice(l.Content), storeTarget(l.Target)})
	case *Note:
		return tc("Note", storeBlockSlice(l.Blocks))
	case *Span:
		return tc("Span", []interface{}{storeAttr(l.Attr), storeInlineSlice(l.Content)})
	case *UnknownInline:
		return storeUnknown(l.T, l.Raw)
	}
	return nil
}
