package pandoc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// see https://hackage.haskell.org/package/pandoc-types-1.23/docs/Text-Pandoc-Definition.html

type Document struct {
	PandocApiVersion json.RawMessage        `json:"pandoc-api-version"`
	Meta             map[string]interface{} `json:"meta"`
	Blocks           []interface{}          `json:"blocks"`
}

type TC struct {
	T string      `json:"t"`
	C interface{} `json:"c"`
}

func NewDocument(buf []byte) (*Document, error) {
	doc := &Document{}
	err := json.Unmarshal(buf, doc)
	if err != nil {
		return nil, decodeError(buf, err)
	}
	if doc.Meta == nil {
		doc.Meta = map[string]interface{}{}
	}
	return doc, nil
}

// ParseMeta flattens the textual metadata entries (MetaString, MetaInlines,
// MetaBool) into plain strings. Other entries are skipped.
func (d *Document) ParseMeta() map[string]string {
	ret := map[string]string{}
	for k, r := range d.Meta {
		tc, err := loadTC(r)
		if err != nil {
			continue
		}
		switch tc.T {
		case "MetaString":
			if s, err := loadString(tc.C); err == nil {
				ret[k] = s
			}
		case "MetaBool":
			if b, ok := tc.C.(bool); ok {
				ret[k] = fmt.Sprint(b)
			}
		case "MetaInlines":
			ss, err := loadInlineSlice(tc.C)
			if err != nil {
				continue
			}
			buf := strings.Builder{}
			for _, l := range ss {
				switch l := l.(type) {
				case *Space:
					buf.WriteString(" ")
				case *SoftBreak:
					buf.WriteString("\n")
				case *LineBreak:
					buf.WriteString("\n")
				case *Str:
					buf.WriteString(l.Text)
				case *RawInline:
					buf.WriteString(l.Text)
				}
			}
			ret[k] = buf.String()
		}
	}
	return ret
}

// SetMetaString stores a MetaString entry, replacing any previous value.
func (d *Document) SetMetaString(key, value string) {
	if d.Meta == nil {
		d.Meta = map[string]interface{}{}
	}
	d.Meta[key] = map[string]interface{}{"t": "MetaString", "c": value}
}

func (d *Document) Flow() (BlockList, error) {
	return loadBlockSlice(d.Blocks)
}

// fields reads the positional content of one element. The first failure
// sticks; later reads are no-ops.
type fields struct {
	name string
	c    []interface{}
	err  error
}

func loadFields(raw interface{}, name string, n int) (*fields, error) {
	c, ok := raw.([]interface{})
	if !ok || len(c) != n {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &fields{name: name, c: c}, nil
}

func field[T any](f *fields, i int, name string, load func(interface{}) (T, error)) (v T) {
	if f.err != nil {
		return v
	}
	var err error
	if v, err = load(f.c[i]); err != nil {
		f.err = fmt.Errorf("%s.%s > %w", f.name, name, err)
	}
	return v
}

// loadSlice decodes a JSON array element by element.
func loadSlice[T any](raw interface{}, name string, load func(interface{}) (T, error)) ([]T, error) {
	ii, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid %s[]", name)
	}
	var ret []T
	for idx, i := range ii {
		v, err := load(i)
		if err != nil {
			return nil, fmt.Errorf("%s[%d] > %w", name, idx, err)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func loadFloat(raw interface{}) (float64, error) {
	f, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid number")
	}
	return f, nil
}

func loadInt(raw interface{}) (int, error) {
	f, err := loadFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid int")
	}
	return int(f), nil
}

func loadString(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid string")
	}
	return s, nil
}

func loadTC(raw interface{}) (*TC, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid (t,c)")
	}
	t, err := loadString(m["t"])
	if err != nil {
		return nil, fmt.Errorf("(t,c) > %w", err)
	}
	return &TC{T: t, C: m["c"]}, nil
}

// loadTString reads a nullary constructor such as {"t": "AlignLeft"}.
func loadTString(raw interface{}) (string, error) {
	tc, err := loadTC(raw)
	if err != nil {
		return "", err
	}
	return tc.T, nil
}

func loadStringSlice(raw interface{}) ([]string, error) {
	return loadSlice(raw, "string", loadString)
}

func loadKeyVal(raw interface{}) (*KeyVal, error) {
	f, err := loadFields(raw, "(k,v)", 2)
	if err != nil {
		return nil, err
	}
	kv := &KeyVal{
		Key: field(f, 0, "key", loadString),
		Val: field(f, 1, "value", loadString),
	}
	return kv, f.err
}

func loadAttr(raw interface{}) (Attr, error) {
	f, err := loadFields(raw, "Attr", 3)
	if err != nil {
		return Attr{}, err
	}
	a := Attr{
		Identifier: field(f, 0, "Identifier", loadString),
		Classes:    field(f, 1, "Classes", loadStringSlice),
		KeyVals: field(f, 2, "KeyVals", func(raw interface{}) ([]*KeyVal, error) {
			return loadSlice(raw, "KeyVal", loadKeyVal)
		}),
	}
	return a, f.err
}

func loadInlineSlice(raw interface{}) (InlineList, error) {
	return loadSlice(raw, "inline", func(raw interface{}) (Inline, error) {
		tc, err := loadTC(raw)
		if err != nil {
			return nil, err
		}
		return loadInline(tc)
	})
}

func loadInlineSliceSlice(raw interface{}) ([]InlineList, error) {
	return loadSlice(raw, "line", loadInlineSlice)
}

// loadBlockSlice drops Null blocks.
func loadBlockSlice(raw interface{}) (BlockList, error) {
	bb, err := loadSlice(raw, "block", func(raw interface{}) (Block, error) {
		tc, err := loadTC(raw)
		if err != nil {
			return nil, err
		}
		return loadBlock(tc)
	})
	if err != nil {
		return nil, err
	}
	ret := bb[:0]
	for _, b := range bb {
		if b != nil {
			ret = append(ret, b)
		}
	}
	if len(ret) == 0 {
		return nil, nil
	}
	return ret, nil
}

func loadBlockSliceSlice(raw interface{}) ([]BlockList, error) {
	return loadSlice(raw, "item", loadBlockSlice)
}

func loadCaption(raw interface{}) (short InlineList, long BlockList, err error) {
	f, err := loadFields(raw, "Caption", 2)
	if err != nil {
		return nil, nil, err
	}
	if f.c[0] != nil {
		short = field(f, 0, "Short", loadInlineSlice)
	}
	long = field(f, 1, "Blocks", loadBlockSlice)
	return short, long, f.err
}

func loadOrderedList(raw interface{}) (*OrderedList, error) {
	f, err := loadFields(raw, "OrderedList", 2)
	if err != nil {
		return nil, err
	}
	la, err := loadFields(f.c[0], "ListAttributes", 3)
	if err != nil {
		return nil, fmt.Errorf("OrderedList > %w", err)
	}
	ol := &OrderedList{
		StartNumber: field(la, 0, "StartNumber", loadInt),
		NumberStyle: field(la, 1, "NumberStyle", loadTString),
		NumberDelim: field(la, 2, "NumberDelim", loadTString),
	}
	if la.err != nil {
		return nil, fmt.Errorf("OrderedList > %w", la.err)
	}
	ol.Items = field(f, 1, "Items", loadBlockSliceSlice)
	return ol, f.err
}

func loadDefinitionItem(raw interface{}) (*DefinitionItem, error) {
	f, err := loadFields(raw, "DefinitionItem", 2)
	if err != nil {
		return nil, err
	}
	d := &DefinitionItem{
		Term:        field(f, 0, "Term", loadInlineSlice),
		Definitions: field(f, 1, "Definitions", loadBlockSliceSlice),
	}
	return d, f.err
}

func loadColSpec(raw interface{}) (*ColSpec, error) {
	f, err := loadFields(raw, "ColSpec", 2)
	if err != nil {
		return nil, err
	}
	c := &ColSpec{Alignment: field(f, 0, "Alignment", loadTString)}
	if f.err != nil {
		return nil, f.err
	}
	// ColWidthDefault carries no value and stays 0
	if w, err := loadTC(f.c[1]); err == nil && w.T == "ColWidth" {
		if c.ColWidth, err = loadFloat(w.C); err != nil {
			return nil, fmt.Errorf("ColSpec.ColWidth > %w", err)
		}
	}
	return c, nil
}

func loadCell(raw interface{}) (*Cell, error) {
	f, err := loadFields(raw, "Cell", 5)
	if err != nil {
		return nil, err
	}
	c := &Cell{
		Attr:      field(f, 0, "Attr", loadAttr),
		Alignment: field(f, 1, "Alignment", loadTString),
		RowSpan:   field(f, 2, "RowSpan", loadInt),
		ColSpan:   field(f, 3, "ColSpan", loadInt),
		Blocks:    field(f, 4, "Blocks", loadBlockSlice),
	}
	return c, f.err
}

func loadRow(raw interface{}) (*Row, error) {
	f, err := loadFields(raw, "Row", 2)
	if err != nil {
		return nil, err
	}
	r := &Row{
		Attr: field(f, 0, "Attr", loadAttr),
		Cells: field(f, 1, "Cells", func(raw interface{}) ([]*Cell, error) {
			return loadSlice(raw, "Cell", loadCell)
		}),
	}
	return r, f.err
}

func loadRowSlice(raw interface{}) ([]*Row, error) {
	return loadSlice(raw, "Row", loadRow)
}

// loadTableSection reads TableHead and TableFoot, which share a layout.
func loadTableSection(name string) func(interface{}) (TableHeadOrFoot, error) {
	return func(raw interface{}) (TableHeadOrFoot, error) {
		f, err := loadFields(raw, name, 2)
		if err != nil {
			return TableHeadOrFoot{}, err
		}
		t := TableHeadOrFoot{
			Attr: field(f, 0, "Attr", loadAttr),
			Rows: field(f, 1, "Rows", loadRowSlice),
		}
		return t, f.err
	}
}

func loadTableBody(raw interface{}) (*TableBody, error) {
	f, err := loadFields(raw, "TableBody", 4)
	if err != nil {
		return nil, err
	}
	b := &TableBody{
		Attr:           field(f, 0, "Attr", loadAttr),
		RowHeadColumns: field(f, 1, "RowHeadColumns", loadInt),
		Rows1:          field(f, 2, "Head", loadRowSlice),
		Rows2:          field(f, 3, "Rows", loadRowSlice),
	}
	return b, f.err
}

func loadTable(raw interface{}) (*Table, error) {
	f, err := loadFields(raw, "Table", 6)
	if err != nil {
		return nil, err
	}
	t := &Table{Attr: field(f, 0, "Attr", loadAttr)}
	if f.err == nil {
		if t.ShortCaption, t.Caption, err = loadCaption(f.c[1]); err != nil {
			return nil, fmt.Errorf("Table > %w", err)
		}
	}
	t.ColSpecs = field(f, 2, "ColSpecs", func(raw interface{}) ([]*ColSpec, error) {
		return loadSlice(raw, "ColSpec", loadColSpec)
	})
	t.Head = field(f, 3, "Head", loadTableSection("TableHead"))
	t.Bodies = field(f, 4, "Bodies", func(raw interface{}) ([]*TableBody, error) {
		return loadSlice(raw, "TableBody", loadTableBody)
	})
	t.Foot = field(f, 5, "Foot", loadTableSection("TableFoot"))
	return t, f.err
}

func loadFigure(raw interface{}) (*Figure, error) {
	f, err := loadFields(raw, "Figure", 3)
	if err != nil {
		return nil, err
	}
	fg := &Figure{Attr: field(f, 0, "Attr", loadAttr)}
	if f.err == nil {
		if fg.ShortCaption, fg.Caption, err = loadCaption(f.c[1]); err != nil {
			return nil, fmt.Errorf("Figure > %w", err)
		}
	}
	fg.Blocks = field(f, 2, "Blocks", loadBlockSlice)
	return fg, f.err
}

// attrText reads the common [Attr, text] layout of CodeBlock and Code.
func attrText(raw interface{}, name string) (Attr, string, error) {
	f, err := loadFields(raw, name, 2)
	if err != nil {
		return Attr{}, "", err
	}
	a := field(f, 0, "Attr", loadAttr)
	s := field(f, 1, "Text", loadString)
	return a, s, f.err
}

// formatText reads the [format, text] layout of RawBlock and RawInline.
func formatText(raw interface{}, name string) (string, string, error) {
	f, err := loadFields(raw, name, 2)
	if err != nil {
		return "", "", err
	}
	format := field(f, 0, "Format", loadString)
	s := field(f, 1, "Text", loadString)
	return format, s, f.err
}

func loadBlock(tc *TC) (Block, error) {
	var b Block
	var err error
	switch tc.T {
	case "Plain":
		p := &Plain{}
		p.Inlines, err = loadInlineSlice(tc.C)
		b = p
	case "Para":
		p := &Para{}
		p.Inlines, err = loadInlineSlice(tc.C)
		b = p
	case "LineBlock":
		lb := &LineBlock{}
		lb.Lines, err = loadInlineSliceSlice(tc.C)
		b = lb
	case "CodeBlock":
		cb := &CodeBlock{}
		cb.Attr, cb.Text, err = attrText(tc.C, "CodeBlock")
		b = cb
	case "RawBlock":
		rb := &RawBlock{}
		rb.Format, rb.Text, err = formatText(tc.C, "RawBlock")
		b = rb
	case "BlockQuote":
		bq := &BlockQuote{}
		bq.Blocks, err = loadBlockSlice(tc.C)
		b = bq
	case "OrderedList":
		b, err = loadOrderedList(tc.C)
	case "BulletList":
		bl := &BulletList{}
		bl.Items, err = loadBlockSliceSlice(tc.C)
		b = bl
	case "DefinitionList":
		dl := &DefinitionList{}
		dl.Items, err = loadSlice(tc.C, "DefinitionItem", loadDefinitionItem)
		b = dl
	case "Header":
		f, ferr := loadFields(tc.C, "Header", 3)
		if ferr != nil {
			return nil, ferr
		}
		b = &Header{
			Level:   field(f, 0, "Level", loadInt),
			Attr:    field(f, 1, "Attr", loadAttr),
			Inlines: field(f, 2, "Inlines", loadInlineSlice),
		}
		err = f.err
	case "HorizontalRule":
		b = &HorizontalRule{}
	case "Table":
		b, err = loadTable(tc.C)
	case "Figure":
		b, err = loadFigure(tc.C)
	case "Div":
		f, ferr := loadFields(tc.C, "Div", 2)
		if ferr != nil {
			return nil, ferr
		}
		b = &Div{
			Attr:   field(f, 0, "Attr", loadAttr),
			Blocks: field(f, 1, "Blocks", loadBlockSlice),
		}
		err = f.err
	case "Null":
		return nil, nil
	default:
		// kept opaque, pandoc knows what to do with it
		return &UnknownBlock{T: tc.T, Raw: tc.C}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s > %w", tc.T, err)
	}
	return b, nil
}

var inlineFormats = map[string]InlineFmt{
	"Emph":        Emph,
	"Underline":   Underline,
	"Strong":      Strong,
	"Strikeout":   Strikeout,
	"Superscript": Superscript,
	"Subscript":   Subscript,
	"SmallCaps":   SmallCaps,
}

func loadCitation(raw interface{}) (*Citation, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid Citation")
	}
	c := &Citation{}
	var err error
	for k, v := range m {
		switch k {
		case "citationId":
			c.Id, err = loadString(v)
		case "citationPrefix":
			c.Prefix, err = loadInlineSlice(v)
		case "citationSuffix":
			c.Suffix, err = loadInlineSlice(v)
		case "citationMode":
			c.Mode, err = loadTString(v)
		case "citationNoteNum":
			c.NoteNum, err = loadInt(v)
		case "citationHash":
			c.Hash, err = loadInt(v)
		}
		if err != nil {
			return nil, fmt.Errorf("Citation.%s > %w", k, err)
		}
	}
	return c, nil
}

func loadTarget(raw interface{}) (Target, error) {
	f, err := loadFields(raw, "Target", 2)
	if err != nil {
		return Target{}, err
	}
	t := Target{
		URL:   field(f, 0, "URL", loadString),
		Title: field(f, 1, "Title", loadString),
	}
	return t, f.err
}

// loadLinkLike reads the [Attr, inlines, target] layout of Link and Image.
func loadLinkLike(raw interface{}, name string) (Attr, InlineList, Target, error) {
	f, err := loadFields(raw, name, 3)
	if err != nil {
		return Attr{}, nil, Target{}, err
	}
	a := field(f, 0, "Attr", loadAttr)
	ll := field(f, 1, "Content", loadInlineSlice)
	t := field(f, 2, "Target", loadTarget)
	return a, ll, t, f.err
}

func loadInline(tc *TC) (Inline, error) {
	if fm, ok := inlineFormats[tc.T]; ok {
		ll, err := loadInlineSlice(tc.C)
		if err != nil {
			return nil, fmt.Errorf("%s > %w", tc.T, err)
		}
		return &Formatted{Fmt: fm, Content: ll}, nil
	}

	var l Inline
	var err error
	switch tc.T {
	case "Str":
		s := &Str{}
		s.Text, err = loadString(tc.C)
		l = s
	case "Space":
		l = &Space{}
	case "SoftBreak":
		l = &SoftBreak{}
	case "LineBreak":
		l = &LineBreak{}
	case "Quoted":
		f, ferr := loadFields(tc.C, "Quoted", 2)
		if ferr != nil {
			return nil, ferr
		}
		l = &Quoted{
			QuoteType: field(f, 0, "QuoteType", loadTString),
			Content:   field(f, 1, "Content", loadInlineSlice),
		}
		err = f.err
	case "Cite":
		f, ferr := loadFields(tc.C, "Cite", 2)
		if ferr != nil {
			return nil, ferr
		}
		l = &Cite{
			Citations: field(f, 0, "Citations", func(raw interface{}) ([]*Citation, error) {
				return loadSlice(raw, "Citation", loadCitation)
			}),
			Content: field(f, 1, "Content", loadInlineSlice),
		}
		err = f.err
	case "Code":
		c := &Code{}
		c.Attr, c.Text, err = attrText(tc.C, "Code")
		l = c
	case "Math":
		f, ferr := loadFields(tc.C, "Math", 2)
		if ferr != nil {
			return nil, ferr
		}
		l = &Math{
			Type: field(f, 0, "Type", loadTString),
			Text: field(f, 1, "Text", loadString),
		}
		err = f.err
	case "RawInline":
		r := &RawInline{}
		r.Format, r.Text, err = formatText(tc.C, "RawInline")
		l = r
	case "Link":
		k := &Link{}
		k.Attr, k.Content, k.Target, err = loadLinkLike(tc.C, "Link")
		l = k
	case "Image":
		i := &Image{}
		i.Attr, i.Content, i.Target, err = loadLinkLike(tc.C, "Image")
		l = i
	case "Note":
		n := &Note{}
		n.Blocks, err = loadBlockSlice(tc.C)
		l = n
	case "Span":
		f, ferr := loadFields(tc.C, "Span", 2)
		if ferr != nil {
			return nil, ferr
		}
		l = &Span{
			Attr:    field(f, 0, "Attr", loadAttr),
			Content: field(f, 1, "Content", loadInlineSlice),
		}
		err = f.err
	default:
		return &UnknownInline{T: tc.T, Raw: tc.C}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s > %w", tc.T, err)
	}
	return l, nil
}
