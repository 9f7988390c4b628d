package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

// blankEntry is one term/definition pair of a fill-in-the-blank answer key.
type blankEntry struct {
	pattern   string
	feedbacks []string
	incorrect bool
}

// blankGroup holds the entries of one definition list, i.e. one blank.
type blankGroup []blankEntry

func (g blankGroup) split() (accepted, incorrect []blankEntry) {
	for _, e := range g {
		if e.incorrect {
			incorrect = append(incorrect, e)
		} else {
			accepted = append(accepted, e)
		}
	}
	return
}

// containsDefinitionList reports whether b is, or has somewhere inside it,
// a definition list.
func containsDefinitionList(b pandoc.Block) bool {
	found := false
	visitBlocks(pandoc.BlockList{b}, func(b pandoc.Block) bool {
		if _, ok := b.(*pandoc.DefinitionList); ok {
			found = true
		}
		return !found
	})
	return found
}

// visitBlocks calls fn for every block in document order, descending into
// containers but not into definition lists. fn returns false to stop.
func visitBlocks(bb pandoc.BlockList, fn func(b pandoc.Block) bool) bool {
	for _, b := range bb {
		if !fn(b) {
			return false
		}
		var inner []pandoc.BlockList
		switch b := b.(type) {
		case *pandoc.Div:
			inner = []pandoc.BlockList{b.Blocks}
		case *pandoc.BlockQuote:
			inner = []pandoc.BlockList{b.Blocks}
		case *pandoc.BulletList:
			inner = b.Items
		case *pandoc.OrderedList:
			inner = b.Items
		case *pandoc.Figure:
			inner = []pandoc.BlockList{b.Blocks}
		}
		for _, ib := range inner {
			if !visitBlocks(ib, fn) {
				return false
			}
		}
	}
	return true
}

// blankQuestion returns the text of the children that come before the first
// one holding a definition list.
func blankQuestion(children pandoc.BlockList) string {
	end := len(children)
	for i, c := range children {
		if containsDefinitionList(c) {
			end = i
			break
		}
	}
	return strings.TrimSpace(StringifyBlocks(children[:end]))
}

// blankGroups turns every definition list among the children into a group.
// The first entry of a group is accepted unless its pattern starts with "x";
// all following entries are incorrect.
func blankGroups(children pandoc.BlockList) []blankGroup {
	groups := []blankGroup{}
	visitBlocks(children, func(b pandoc.Block) bool {
		dl, ok := b.(*pandoc.DefinitionList)
		if !ok {
			return true
		}
		g := blankGroup{}
		for i, item := range dl.Items {
			e := blankEntry{pattern: strings.TrimSpace(Stringify(item.Term))}
			e.incorrect = i > 0 || strings.HasPrefix(strings.ToLower(e.pattern), "x")
			for _, def := range item.Definitions {
				if fb := strings.TrimSpace(StringifyBlocks(def)); fb != "" {
					e.feedbacks = append(e.feedbacks, fb)
				}
			}
			g = append(g, e)
		}
		groups = append(groups, g)
		return true
	})
	return groups
}

func acceptedItem(e blankEntry) pandoc.InlineList {
	ll := pandoc.InlineList{&pandoc.Code{Text: e.pattern}}
	if len(e.feedbacks) > 0 {
		ll = append(ll, &pandoc.Str{Text: ":"}, &pandoc.Space{})
		ll = append(ll, pandoc.Text(strings.Join(e.feedbacks, " | "))...)
	}
	return ll
}

func incorrectItem(e blankEntry) pandoc.InlineList {
	if len(e.feedbacks) > 0 {
		return pandoc.Text(strings.Join(e.feedbacks, " | "))
	}
	return append(pandoc.Text("no feedback for pattern "), &pandoc.Code{Text: e.pattern})
}

// fitbDefinitionHandler handles RST fill-in-the-blank questions whose answer
// key is written as field lists (definition lists in the AST).
func fitbDefinitionHandler(in *Input) any {
	groups := blankGroups(in.Children)
	if len(groups) == 0 {
		return appendPara(nothing(), in.Text)
	}

	bb := appendPara(nothing(), blankQuestion(in.Children))
	for gi, g := range groups {
		if len(groups) > 1 {
			bb = append(bb, para(fmt.Sprintf("Blank %d:", gi+1)))
		}
		accepted, incorrect := g.split()
		if len(accepted) > 0 {
			items := []pandoc.InlineList{}
			for _, e := range accepted {
				items = append(items, acceptedItem(e))
			}
			bb = append(bb, para("Accepted answers:"), bullets(items))
		}
		if len(incorrect) > 0 {
			items := []pandoc.InlineList{}
			for _, e := range incorrect {
				items = append(items, incorrectItem(e))
			}
			bb = append(bb, para("Incorrect answer feedback:"), bullets(items))
		}
	}
	return bb
}

const blankMarker = "|blank|"

func blankLabel(n int) string {
	return "(Answer " + strconv.Itoa(n) + ")"
}

// labelBlanks replaces every blank marker, left to right, with a numbered
// label. It returns the text and the number of blanks seen.
func labelBlanks(text string) (string, int) {
	parts := strings.Split(text, blankMarker)
	return foldBlanks(parts[0], 0, parts[1:])
}

func foldBlanks(acc string, n int, rest []string) (string, int) {
	for _, p := range rest {
		acc, n = acc+blankLabel(n+1)+p, n+1
	}
	return acc, n
}

// fitbBlankHandler handles Markdown fill-in-the-blank questions with an
// `answer` option and |blank| markers in the text.
func fitbBlankHandler(in *Input) any {
	text, _ := labelBlanks(strings.TrimSpace(in.Text))
	bb := appendPara(nothing(), text)

	items := []pandoc.InlineList{}
	for _, a := range strings.Split(in.Option("answer"), ",") {
		if a = strings.TrimSpace(a); a == "" {
			continue
		}
		items = append(items, pandoc.Text(fmt.Sprintf("Answer %d: %s", len(items)+1, a)))
	}
	if len(items) > 0 {
		bb = append(bb, para("Accepted answers:"), bullets(items))
	}
	return bb
}
