package directive

import (
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

const parsonsSeparator = "-----"

func parsonsHandler(in *Input) any {
	return parsonsBlocks(in.Text)
}

// parsonsDivHandler also accepts RST bodies where the separator line was
// parsed as a transition.
func parsonsDivHandler(in *Input) any {
	if strings.Contains(in.Text, parsonsSeparator) {
		return parsonsBlocks(in.Text)
	}
	for i, c := range in.Children {
		if _, ok := c.(*pandoc.HorizontalRule); ok {
			text := StringifyBlocks(in.Children[:i]) + "\n" + parsonsSeparator + "\n" +
				strings.Join(blockLines(in.Children[i+1:]), "\n")
			return parsonsBlocks(text)
		}
	}
	return parsonsBlocks(in.Text)
}

// blockLines stringifies each block on its own so that consecutive
// paragraphs stay on separate lines.
func blockLines(bb pandoc.BlockList) []string {
	ret := []string{}
	for _, b := range bb {
		ret = append(ret, splitLines(Stringify(b))...)
	}
	return ret
}

func parsonsBlocks(text string) pandoc.BlockList {
	segs := strings.Split(text, parsonsSeparator)
	bb := appendPara(nothing(), segs[0])
	if len(segs) < 2 {
		return bb
	}

	ol := &pandoc.OrderedList{StartNumber: 1, NumberStyle: "Decimal", NumberDelim: "Period"}
	for _, line := range splitLines(segs[1]) {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		ol.Items = append(ol.Items, pandoc.BlockList{
			&pandoc.Plain{Inlines: pandoc.InlineList{&pandoc.Code{Text: line}}},
		})
	}
	if len(ol.Items) > 0 {
		bb = append(bb, para("Correct order:"), ol)
	}
	return bb
}
