package pandoc

type KeyVal struct {
	Key string
	Val string
}

type Attr struct {
	Identifier string
	Classes    []string
	KeyVals    []*KeyVal
}

func (a *Attr) KeyValMap() map[string]string {
	ret := make(map[string]string, len(a.KeyVals))
	for _, kv := range a.KeyVals {
		ret[kv.Key] = kv.Val
	}
	return ret
}

func (a *Attr) HasClass(s string) bool {
	for _, c := range a.Classes {
		if c == s {
			return true
		}
	}
	return false
}

// FirstClass returns the leading class or "" when there is none.
func (a *Attr) FirstClass() string {
	if len(a.Classes) == 0 {
		return ""
	}
	return a.Classes[0]
}

// Clone returns a deep copy of the attribute.
func (a Attr) Clone() Attr {
	ret := Attr{Identifier: a.Identifier}
	if a.Classes != nil {
		ret.Classes = append([]string{}, a.Classes...)
	}
	for _, kv := range a.KeyVals {
		ret.KeyVals = append(ret.KeyVals, &KeyVal{Key: kv.Key, Val: kv.Val})
	}
	return ret
}

// Block is any block level element. Tag reports the pandoc constructor name.
type Block interface {
	Tag() string
}

type BlockList []Block

type Plain struct {
	Inlines InlineList
}

type Para struct {
	Inlines InlineList
}

type LineBlock struct {
	Lines []InlineList
}

type CodeBlock struct {
	Attr Attr
	Text string
}

type RawBlock struct {
	Format string
	Text   string
}

type BlockQuote struct {
	Blocks BlockList
}

type OrderedList struct {
	StartNumber int
	NumberStyle string
	NumberDelim string
	Items       []BlockList
}

type BulletList struct {
	Items []BlockList
}

type DefinitionItem struct {
	Term        InlineList
	Definitions []BlockList
}

type DefinitionList struct {
	Items []*DefinitionItem
}

type Header struct {
	Level   int
	Attr    Attr
	Inlines InlineList
}

type HorizontalRule struct {
}

type ColSpec struct {
	Alignment string
	ColWidth  float64 // 0 means ColWidthDefault
}

type Table struct {
	Attr         Attr
	ShortCaption InlineList
	Caption      BlockList
	ColSpecs     []*ColSpec
	Head         TableHeadOrFoot
	Bodies       []*TableBody
	Foot         TableHeadOrFoot
}

type TableHeadOrFoot struct {
	Attr Attr
	Rows []*Row
}

type TableBody struct {
	Attr           Attr
	RowHeadColumns int
	Rows1          []*Row
	Rows2          []*Row
}

type Row struct {
	Attr  Attr
	Cells []*Cell
}

type Cell struct {
	Attr      Attr
	Alignment string
	RowSpan   int
	ColSpan   int
	Blocks    BlockList
}

type Figure struct {
	Attr         Attr
	ShortCaption InlineList
	Caption      BlockList
	Blocks       BlockList
}

type Div struct {
	Attr   Attr
	Blocks BlockList
}

// UnknownBlock keeps an element the decoder does not model. It is encoded
// back exactly as it was read.
type UnknownBlock struct {
	T   string
	Raw interface{}
}

func (*Plain) Tag() string          { return "Plain" }
func (*Para) Tag() string           { return "Para" }
func (*LineBlock) Tag() string      { return "LineBlock" }
func (*CodeBlock) Tag() string      { return "CodeBlock" }
func (*RawBlock) Tag() string       { return "RawBlock" }
func (*BlockQuote) Tag() string     { return "BlockQuote" }
func (*OrderedList) Tag() string    { return "OrderedList" }
func (*BulletList) Tag() string     { return "BulletList" }
func (*DefinitionList) Tag() string { return "DefinitionList" }
func (*Header) Tag() string         { return "Header" }
func (*HorizontalRule) Tag() string { return "HorizontalRule" }
func (*Table) Tag() string          { return "Table" }
func (*Figure) Tag() string         { return "Figure" }
func (*Div) Tag() string            { return "Div" }
func (b *UnknownBlock) Tag() string { return b.T }

// Inline is any inline element.
type Inline interface {
	Tag() string
}

type InlineList []Inline

type Str struct {
	Text string
}

type InlineFmt int

const (
	Emph = InlineFmt(iota)
	Underline
	Strong
	Strikeout
	Superscript
	Subscript
	SmallCaps
)

func (f InlineFmt) String() string {
	switch f {
	case Emph:
		return "Emph"
	case Underline:
		return "Underline"
	case Strong:
		return "Strong"
	case Strikeout:
		return "Strikeout"
	case Superscript:
		return "Superscript"
	case Subscript:
		return "Subscript"
	case SmallCaps:
		return "SmallCaps"
	default:
		return "UnknownSpan"
	}
}

type Formatted struct {
	Fmt     InlineFmt
	Content InlineList
}

type Quoted struct {
	QuoteType string // SingleQuote or DoubleQuote
	Content   InlineList
}

type Citation struct {
	Id      string
	Prefix  InlineList
	Suffix  InlineList
	Mode    string // AuthorInText, SuppressAuthor, NormalCitation
	NoteNum int
	Hash    int
}

type Cite struct {
	Citations []*Citation
	Content   InlineList
}

type Code struct {
	Attr Attr
	Text string
}

type Space struct {
}

type SoftBreak struct {
}

type LineBreak struct {
}

type Math struct {
	Type string // DisplayMath, InlineMath
	Text string
}

type RawInline struct {
	Format string
	Text   string
}

type Target struct {
	URL   string
	Title string
}

type Link struct {
	Attr    Attr
	Content InlineList
	Target  Target
}

type Image struct {
	Attr    Attr
	Content InlineList
	Target  Target
}

type Note struct {
	Blocks BlockList
}

type Span struct {
	Attr    Attr
	Content InlineList
}

type UnknownInline struct {
	T   string
	Raw interface{}
}

func (*Str) Tag() string             { return "Str" }
func (f *Formatted) Tag() string     { return f.Fmt.String() }
func (*Quoted) Tag() string          { return "Quoted" }
func (*Cite) Tag() string            { return "Cite" }
func (*Code) Tag() string            { return "Code" }
func (*Space) Tag() string           { return "Space" }
func (*SoftBreak) Tag() string       { return "SoftBreak" }
func (*LineBreak) Tag() string       { return "LineBreak" }
func (*Math) Tag() string            { return "Math" }
func (*RawInline) Tag() string       { return "RawInline" }
func (*Link) Tag() string            { return "Link" }
func (*Image) Tag() string           { return "Image" }
func (*Note) Tag() string            { return "Note" }
func (*Span) Tag() string            { return "Span" }
func (i *UnknownInline) Tag() string { return i.T }

// Text splits s into Str, Space and SoftBreak elements the way the pandoc
// readers tokenize plain text.
func Text(s string) InlineList {
	ll := InlineList{}
	word := []rune{}
	flush := func() {
		if len(word) > 0 {
			ll = append(ll, &Str{Text: string(word)})
			word = word[:0]
		}
	}
	for _, r := range s {
		switch r {
		case ' ', '\t':
			flush()
			if n := len(ll); n == 0 || !isBreak(ll[n-1]) {
				ll = append(ll, &Space{})
			}
		case '\n':
			flush()
			if n := len(ll); n > 0 && isSpace(ll[n-1]) {
				ll = ll[:n-1]
			}
			ll = append(ll, &SoftBreak{})
		case '\r':
		default:
			word = append(word, r)
		}
	}
	flush()
	return ll
}

func isSpace(l Inline) bool {
	_, ok := l.(*Space)
	return ok
}

func isBreak(l Inline) bool {
	switch l.(type) {
	case *Space, *SoftBreak:
		return true
	}
	return false
}
