package directive

import "github.com/Petlja/data-preprocessing/pandoc"

// Normalize shapes a handler result into a block list. The second result is
// false when the original node should be kept: for nil and for values that
// are not text or blocks.
func Normalize(result any) (pandoc.BlockList, bool) {
	switch r := result.(type) {
	case nil:
		return nil, false
	case string:
		return pandoc.BlockList{&pandoc.Para{Inlines: pandoc.InlineList{&pandoc.Str{Text: r}}}}, true
	case pandoc.BlockList:
		if r == nil {
			return nil, false
		}
		return r, true
	case []pandoc.Block:
		if r == nil {
			return nil, false
		}
		return pandoc.BlockList(r), true
	case pandoc.Block:
		return pandoc.BlockList{r}, true
	}
	return nil, false
}
