package pandoc

// BlockFunc inspects a block. A false second result leaves the block in place
// (its children are still visited); otherwise the returned blocks replace it.
type BlockFunc func(b Block) (BlockList, bool)

// WalkBlocks visits every block of bb top down and returns the rewritten
// flow. Containers on the path to a replaced block are copied; bb and its
// nodes are never modified. Replacement blocks are not passed to fn again,
// only their descendants are.
func WalkBlocks(bb BlockList, fn BlockFunc) BlockList {
	if bb == nil {
		return nil
	}
	ret := make(BlockList, 0, len(bb))
	for _, b := range bb {
		if repl, ok := fn(b); ok {
			for _, r := range repl {
				ret = append(ret, walkChildren(r, fn))
			}
			continue
		}
		ret = append(ret, walkChildren(b, fn))
	}
	return ret
}

func walkItems(items []BlockList, fn BlockFunc) []BlockList {
	if items == nil {
		return nil
	}
	ret := make([]BlockList, 0, len(items))
	for _, bb := range items {
		ret = append(ret, WalkBlocks(bb, fn))
	}
	return ret
}

func walkRows(rr []*Row, fn BlockFunc) []*Row {
	if rr == nil {
		return nil
	}
	ret := make([]*Row, 0, len(rr))
	for _, r := range rr {
		nr := &Row{Attr: r.Attr}
		for _, c := range r.Cells {
			nc := *c
			nc.Blocks = WalkBlocks(c.Blocks, fn)
			nr.Cells = append(nr.Cells, &nc)
		}
		ret = append(ret, nr)
	}
	return ret
}

func walkChildren(b Block, fn BlockFunc) Block {
	switch b := b.(type) {
	case *Div:
		return &Div{Attr: b.Attr, Blocks: WalkBlocks(b.Blocks, fn)}
	case *BlockQuote:
		return &BlockQuote{Blocks: WalkBlocks(b.Blocks, fn)}
	case *OrderedList:
		n := *b
		n.Items = walkItems(b.Items, fn)
		return &n
	case *BulletList:
		return &BulletList{Items: walkItems(b.Items, fn)}
	case *DefinitionList:
		n := &DefinitionList{}
		for _, i := range b.Items {
			n.Items = append(n.Items, &DefinitionItem{Term: i.Term, Definitions: walkItems(i.Definitions, fn)})
		}
		return n
	case *Figure:
		n := *b
		n.Blocks = WalkBlocks(b.Blocks, fn)
		return &n
	case *Table:
		n := *b
		n.Head.Rows = walkRows(b.Head.Rows, fn)
		n.Foot.Rows = walkRows(b.Foot.Rows, fn)
		n.Bodies = nil
		for _, tb := range b.Bodies {
			nb := *tb
			nb.Rows1 = walkRows(tb.Rows1, fn)
			nb.Rows2 = walkRows(tb.Rows2, fn)
			n.Bodies = append(n.Bodies, &nb)
		}
		return &n
	}
	return b
}
