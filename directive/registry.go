package directive

import (
	"sort"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

// Dialect identifies the source markup a directive node came from.
type Dialect int

const (
	// RST directives arrive as Div containers, options in the attributes.
	RST = Dialect(iota)
	// Markdown directives arrive as fenced code blocks, options in the body.
	Markdown
)

func (d Dialect) String() string {
	switch d {
	case RST:
		return "rst"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Input is what a handler gets to work with.
type Input struct {
	Options    map[string]string
	Text       string           // body text, options removed
	Children   pandoc.BlockList // Div content (RST only), leading id removed
	Code       string           // unprocessed code block body (Markdown only)
	Identifier string
	Classes    []string
	KeyVals    []*pandoc.KeyVal
}

// Option returns the trimmed value of an option, "" when it is missing.
func (in *Input) Option(key string) string {
	return strings.TrimSpace(in.Options[key])
}

// HandlerFunc rewrites one directive. It returns nil (leave the node alone),
// a string (becomes a paragraph), a single block or a pandoc.BlockList.
// Handlers must not modify their input.
type HandlerFunc func(in *Input) any

type Descriptor struct {
	RequiresID bool // the first Div child is the directive argument
	RST        HandlerFunc
	Markdown   HandlerFunc
}

func (d *Descriptor) Handler(dl Dialect) HandlerFunc {
	if dl == Markdown {
		return d.Markdown
	}
	return d.RST
}

// Registry maps directive class names to descriptors. It is not changed
// after construction and may be shared between goroutines.
type Registry struct {
	entries map[string]Descriptor
}

func NewRegistry(entries map[string]Descriptor) *Registry {
	r := &Registry{entries: make(map[string]Descriptor, len(entries))}
	for k, v := range entries {
		r.entries[k] = v
	}
	return r
}

// Lookup finds the descriptor for a class. Matching is exact and case sensitive.
func (r *Registry) Lookup(class string) (*Descriptor, bool) {
	if r == nil || class == "" {
		return nil, false
	}
	d, ok := r.entries[class]
	if !ok {
		return nil, false
	}
	return &d, true
}

// With returns a copy of r with the given descriptor added or replaced.
func (r *Registry) With(class string, d Descriptor) *Registry {
	n := NewRegistry(r.entries)
	n.entries[class] = d
	return n
}

// Names lists the registered classes in sorted order.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.entries))
	for k := range r.entries {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// DefaultRegistry returns the directive vocabulary of the course repositories.
func DefaultRegistry() *Registry {
	note := Descriptor{RST: noteHandler, Markdown: noteHandler}
	fitb := Descriptor{RequiresID: true, RST: fitbDefinitionHandler, Markdown: fitbBlankHandler}
	parsons := Descriptor{RequiresID: true, RST: parsonsDivHandler, Markdown: parsonsHandler}

	return NewRegistry(map[string]Descriptor{
		"mchoice":        {RequiresID: true, RST: mchoiceLetterHandler, Markdown: mchoiceNumberHandler},
		"fillintheblank": fitb,
		"fitb":           fitb,
		"parsonsprob":    parsons,
		"parsons":        parsons,
		"dragndrop":      {RequiresID: true, RST: dragndropHandler, Markdown: dragndropHandler},
		"ytpopup":        {RequiresID: true, RST: ytpopupHandler, Markdown: ytpopupHandler},
		"karel":          {RequiresID: true, RST: codeHandler("karel"), Markdown: codeHandler("karel")},
		"activecode":     {RequiresID: true, RST: activecodeHandler(RST), Markdown: activecodeHandler(Markdown)},
		"questionnote":   note,
		"suggestionnote": note,
		"technicalnote":  note,
		"infonote":       note,
		"learnmorenote":  note,
		"reveal":         {RequiresID: true, RST: containerHandler("reveal"), Markdown: textHandler},
		"quizq":          {RST: containerHandler("question"), Markdown: textHandler},
		"pycode":         {RequiresID: true, RST: codeHandler("python"), Markdown: codeHandler("python")},
		"dbquery":        {RequiresID: true, RST: codeHandler("sql"), Markdown: codeHandler("sql")},
	})
}
