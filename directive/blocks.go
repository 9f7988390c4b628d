package directive

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

func para(s string) *pandoc.Para {
	return &pandoc.Para{Inlines: pandoc.Text(s)}
}

// appendPara adds a paragraph with trimmed s, unless s is blank.
func appendPara(bb pandoc.BlockList, s string) pandoc.BlockList {
	s = strings.TrimSpace(s)
	if s == "" {
		return bb
	}
	return append(bb, para(s))
}

func comment(s string) *pandoc.RawBlock {
	return &pandoc.RawBlock{Format: "html", Text: "<!-- " + s + " -->"}
}

func bullets(items []pandoc.InlineList) *pandoc.BulletList {
	bl := &pandoc.BulletList{}
	for _, ll := range items {
		bl.Items = append(bl.Items, pandoc.BlockList{&pandoc.Plain{Inlines: ll}})
	}
	return bl
}

func codeBlock(lang, text string) *pandoc.CodeBlock {
	cb := &pandoc.CodeBlock{Text: text}
	if lang != "" {
		cb.Attr.Classes = []string{lang}
	}
	return cb
}

// nothing is the result of a directive that has no content worth keeping.
func nothing() pandoc.BlockList {
	return pandoc.BlockList{}
}

func noteHandler(in *Input) any {
	s := strings.TrimSpace(in.Text)
	if s == "" {
		return nothing()
	}
	return s
}

// textHandler keeps just the text of a directive as one paragraph.
func textHandler(in *Input) any {
	return noteHandler(in)
}

// codeHandler re-wraps the directive body as a code block in lang.
func codeHandler(lang string) HandlerFunc {
	return func(in *Input) any {
		s := strings.Trim(in.Text, "\r\n")
		if strings.TrimSpace(s) == "" {
			return nothing()
		}
		cb := codeBlock(lang, s)
		cb.Attr.Identifier = in.Identifier
		return cb
	}
}

// containerHandler keeps the children under a Div with just the given class.
func containerHandler(class string) HandlerFunc {
	return func(in *Input) any {
		return &pandoc.Div{
			Attr:   pandoc.Attr{Identifier: in.Identifier, Classes: []string{class}},
			Blocks: append(pandoc.BlockList{}, in.Children...),
		}
	}
}

const youtubeTemplate = `<iframe width="560" height="315" src="https://www.youtube.com/embed/%s" frameborder="0" allowfullscreen></iframe>`

func ytpopupHandler(in *Input) any {
	id := in.Option("id")
	if id == "" {
		if lines := splitLines(strings.TrimSpace(in.Text)); len(lines) > 0 {
			id = strings.TrimSpace(lines[0])
		}
	}
	if id == "" {
		return nothing()
	}
	html := fmt.Sprintf(youtubeTemplate, url.PathEscape(id))
	return &pandoc.Div{
		Attr:   pandoc.Attr{Identifier: in.Identifier, Classes: []string{"text"}},
		Blocks: pandoc.BlockList{&pandoc.RawBlock{Format: "html", Text: html}},
	}
}
