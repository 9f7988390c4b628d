package directive

import (
	"github.com/Petlja/data-preprocessing/pandoc"
)

// RepoBaseDirKey is the metadata entry holding the repository root that
// include options are resolved against.
const RepoBaseDirKey = "repo_base_dir"

// Engine rewrites directive nodes. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	Registry *Registry
	Meta     map[string]string // document metadata

	// RewriteRawRST turns raw rst directive blocks embedded in Markdown into
	// fenced Markdown directives.
	RewriteRawRST bool
}

func NewEngine(reg *Registry, meta map[string]string) *Engine {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Engine{Registry: reg, Meta: meta}
}

// Apply rewrites a single block. It returns false when b is not a
// recognized directive and should stay as it is.
func (e *Engine) Apply(b pandoc.Block) (bb pandoc.BlockList, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			bb, ok = nil, false
		}
	}()

	switch b := b.(type) {
	case *pandoc.CodeBlock:
		return e.applyCodeBlock(b)
	case *pandoc.Div:
		return e.applyDiv(b)
	case *pandoc.RawBlock:
		if e.RewriteRawRST {
			return rewriteRawRST(b)
		}
	}
	return nil, false
}

// Filter rewrites every directive in the flow, nested ones included.
func (e *Engine) Filter(bb pandoc.BlockList) pandoc.BlockList {
	return pandoc.WalkBlocks(bb, e.Apply)
}

// FilterDocument decodes the document flow and filters it.
func (e *Engine) FilterDocument(d *pandoc.Document) (pandoc.BlockList, error) {
	bb, err := d.Flow()
	if err != nil {
		return nil, err
	}
	return e.Filter(bb), nil
}

func (e *Engine) applyCodeBlock(cb *pandoc.CodeBlock) (pandoc.BlockList, bool) {
	desc, ok := e.Registry.Lookup(cb.Attr.FirstClass())
	if !ok {
		return nil, false
	}
	h := desc.Handler(Markdown)
	if h == nil {
		return nil, false
	}

	options, residual := ParseOptions(cb.Text)
	if _, set := options[RepoBaseDirKey]; !set && e.Meta[RepoBaseDirKey] != "" {
		options[RepoBaseDirKey] = e.Meta[RepoBaseDirKey]
	}
	attr := cb.Attr.Clone()
	return Normalize(h(&Input{
		Options:    options,
		Text:       Residual(residual),
		Code:       cb.Text,
		Identifier: attr.Identifier,
		Classes:    attr.Classes,
		KeyVals:    attr.KeyVals,
	}))
}

func (e *Engine) applyDiv(div *pandoc.Div) (pandoc.BlockList, bool) {
	desc, ok := e.Registry.Lookup(div.Attr.FirstClass())
	if !ok {
		return nil, false
	}
	h := desc.Handler(RST)
	if h == nil {
		return nil, false
	}

	attr := div.Attr.Clone()
	contents := div.Blocks
	if desc.RequiresID && len(contents) > 0 {
		id := Stringify(contents[0])
		contents = contents[1:]
		attr.KeyVals = append(attr.KeyVals, &pandoc.KeyVal{Key: "id", Val: id})
	}

	options := make(map[string]string, len(attr.KeyVals)+1)
	for _, kv := range attr.KeyVals {
		options[kv.Key] = kv.Val
	}
	options[RepoBaseDirKey] = e.Meta[RepoBaseDirKey]

	return Normalize(h(&Input{
		Options:    options,
		Text:       StringifyBlocks(contents),
		Children:   append(pandoc.BlockList{}, contents...),
		Identifier: attr.Identifier,
		Classes:    attr.Classes,
		KeyVals:    attr.KeyVals,
	}))
}
