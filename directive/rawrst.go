package directive

import (
	"regexp"
	"strings"

	"github.com/Petlja/data-preprocessing/pandoc"
)

var reRawDirective = regexp.MustCompile(`(?s)^\.\.\s+([a-zA-Z0-9_-]+)::?(.*)$`)

// rstDirectiveToFenced rewrites `.. name:: body` into a fenced
// {name} block that the Markdown reader turns into a directive code block.
func rstDirectiveToFenced(raw string) (string, bool) {
	m := reRawDirective.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	_, after, ok := strings.Cut(raw, "::")
	if !ok {
		return "", false
	}
	body := strings.TrimLeft(after, ":\n ")
	return "```{" + m[1] + "}\n" + body + "\n```", true
}

func rewriteRawRST(rb *pandoc.RawBlock) (pandoc.BlockList, bool) {
	if rb.Format != "rst" {
		return nil, false
	}
	s, ok := rstDirectiveToFenced(rb.Text)
	if !ok {
		return nil, false
	}
	return pandoc.BlockList{&pandoc.RawBlock{Format: "markdown", Text: s}}, true
}
