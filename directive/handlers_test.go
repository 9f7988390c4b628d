package directive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Petlja/data-preprocessing/markdown"
	"github.com/Petlja/data-preprocessing/pandoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, rest := ParseOptions(":correct: a,b\nSome text")
	assert.Equal(t, map[string]string{"correct": "a,b"}, opts)
	assert.Equal(t, []string{"Some text"}, rest)

	opts, rest = ParseOptions(":a: 1\r\n: not an option\n:a: 2\n\nbody\n")
	assert.Equal(t, map[string]string{"a": "2"}, opts)
	assert.Equal(t, ": not an option\n\nbody", Residual(rest))

	opts, rest = ParseOptions("")
	assert.Empty(t, opts)
	assert.Empty(t, rest)
}

func TestMchoiceCorrectSorted(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, rstDirective("mchoice",
		[]*pandoc.KeyVal{kv("answer_a", "X"), kv("answer_b", "Y"), kv("feedback_b", "close"), kv("correct", "b,a")},
		para("q1"),
		para("Which ones?"),
	))
	assert.Equal(t, "Which ones?\n\n- a\\) X\n- b\\) Y | close\n\nCorrect: a, b\n", markdown.Render(bb))
}

func TestMchoiceMarkdownNumbers(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, mdDirective("mchoice",
		":answer1: one\n:answer2: two\n:answer10: ten\n:correct: 10, 2,2\nPick."))
	assert.Equal(t, "Pick.\n\n- 1\\) one\n- 2\\) two\n- 10\\) ten\n\nCorrect: 2, 10\n", markdown.Render(bb))
}

func TestCorrectLabels(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, correctLabels(" C, a ,c"))
	assert.Equal(t, []string{"2", "10"}, correctLabels("10,2"))
	assert.Empty(t, correctLabels(""))
}

func TestDragndrop(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, rstDirective("dragndrop",
		[]*pandoc.KeyVal{kv("match_1", "left|||right"), kv("match_2", "just text")},
		para("dnd1"),
		para("Match them."),
	))
	assert.Equal(t, "Match them.\n\n- left → right\n- just text\n", markdown.Render(bb))
}

func TestDragndropOrder(t *testing.T) {
	tests := []struct {
		name string
		kvs  []*pandoc.KeyVal
		want string
	}{
		{
			"numeric not lexical",
			[]*pandoc.KeyVal{kv("match_10", "ten|||10"), kv("match_2", "two|||2"), kv("match_1", "one|||1")},
			"- one → 1\n- two → 2\n- ten → 10\n",
		},
		{
			"gaps skipped",
			[]*pandoc.KeyVal{kv("match_3", "c|||3"), kv("match_1", "a|||1")},
			"- a → 1\n- c → 3\n",
		},
		{
			"beyond twenty ignored",
			[]*pandoc.KeyVal{kv("match_20", "last|||20"), kv("match_21", "over|||21")},
			"- last → 20\n",
		},
		{
			"three parts kept raw",
			[]*pandoc.KeyVal{kv("match_1", " a|||b|||c ")},
			"- a|||b|||c\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := apply(t, NewEngine(nil, nil), rstDirective("dragndrop", tt.kvs, para("dnd"), para("Match.")))
			assert.Equal(t, "Match.\n\n"+tt.want, markdown.Render(bb))
		})
	}
}

func TestBlankFirstEntry(t *testing.T) {
	tests := []struct {
		term      string
		incorrect bool
	}{
		{"cat", false},
		{"box", false},
		{"xdog", true},
		{"Xylophone", true},
		{"  xdog", true},
		{"  X-ray", true},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			groups := blankGroups(pandoc.BlockList{&pandoc.DefinitionList{Items: []*pandoc.DefinitionItem{
				{Term: pandoc.Text(tt.term)},
				{Term: pandoc.Text("other")},
			}}})
			require.Len(t, groups, 1)
			require.Len(t, groups[0], 2)
			assert.Equal(t, tt.incorrect, groups[0][0].incorrect)
			assert.Equal(t, strings.TrimSpace(tt.term), groups[0][0].pattern)
			assert.True(t, groups[0][1].incorrect)
		})
	}
}

func fitbChildren() pandoc.BlockList {
	return pandoc.BlockList{
		para("The animal says meow."),
		&pandoc.DefinitionList{Items: []*pandoc.DefinitionItem{
			{Term: pandoc.Text("cat"), Definitions: []pandoc.BlockList{{para("Correct.")}}},
			{Term: pandoc.Text("xdog"), Definitions: []pandoc.BlockList{{para("Not a dog.")}}},
			{Term: pandoc.Text("bird")},
		}},
	}
}

func TestBlankGroups(t *testing.T) {
	groups := blankGroups(fitbChildren())
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 3)

	assert.Equal(t, "cat", groups[0][0].pattern)
	assert.False(t, groups[0][0].incorrect)
	assert.True(t, groups[0][1].incorrect)
	assert.True(t, groups[0][2].incorrect, "position after the first entry is always incorrect")
	assert.Empty(t, groups[0][2].feedbacks)
}

func TestBlankQuestionIsPure(t *testing.T) {
	children := fitbChildren()
	first := blankQuestion(children)
	assert.Equal(t, "The animal says meow.", first)
	assert.Equal(t, first, blankQuestion(children))
	assert.Equal(t, fitbChildren(), children)
}

func TestFillInTheBlankRST(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, rstDirective("fillintheblank", nil,
		append(pandoc.BlockList{para("fb1")}, fitbChildren()...)...,
	))
	assert.Equal(t, "The animal says meow.\n\n"+
		"Accepted answers:\n\n"+
		"- `cat`: Correct.\n\n"+
		"Incorrect answer feedback:\n\n"+
		"- Not a dog.\n"+
		"- no feedback for pattern `bird`\n", markdown.Render(bb))
}

func TestFillInTheBlankGroups(t *testing.T) {
	dl := func(term string) *pandoc.DefinitionList {
		return &pandoc.DefinitionList{Items: []*pandoc.DefinitionItem{{Term: pandoc.Text(term)}}}
	}
	bb, ok := Normalize(fitbDefinitionHandler(&Input{
		Children: pandoc.BlockList{para("Two blanks."), dl("one"), &pandoc.BlockQuote{Blocks: pandoc.BlockList{dl("two")}}},
	}))
	require.True(t, ok)
	assert.Equal(t, "Two blanks.\n\n"+
		"Blank 1:\n\nAccepted answers:\n\n- `one`\n\n"+
		"Blank 2:\n\nAccepted answers:\n\n- `two`\n", markdown.Render(bb))
}

func TestFillInTheBlankMarkdown(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, mdDirective("fitb", ":answer: 42, forty-two\nFirst |blank| then |blank|."))
	assert.Equal(t, "First (Answer 1) then (Answer 2).\n\n"+
		"Accepted answers:\n\n"+
		"- Answer 1: 42\n"+
		"- Answer 2: forty-two\n", markdown.Render(bb))
}

func TestLabelBlanks(t *testing.T) {
	tests := []struct {
		in   string
		want string
		n    int
	}{
		{"|blank| and |blank|", "(Answer 1) and (Answer 2)", 2},
		{"|blank|", "(Answer 1)", 1},
		{"none", "none", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, n := labelBlanks(tt.in)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestSplitCode(t *testing.T) {
	p := splitCode("intro ~~~~ print(1) ==== print(2)")
	assert.Equal(t, "intro", p.prose)
	assert.Equal(t, "print(1)", p.visible)
	assert.Contains(t, p.hidden, "print(2)")

	p = splitCode("x = 1\n====\ncheck(x)")
	assert.Equal(t, "", p.prose)
	assert.Equal(t, "x = 1", p.visible)
	assert.Equal(t, "check(x)", p.hidden)
}

func TestActivecodeDialects(t *testing.T) {
	e := NewEngine(nil, nil)

	bb := apply(t, e, mdDirective("activecode", ":language: c\nintro ~~~~ print(1) ==== print(2)"))
	assert.Equal(t, pandoc.BlockList{
		para("intro"),
		comment("code"),
		codeBlock("c", "print(1)"),
		comment("hidden code"),
		codeBlock("c", "print(2)"),
	}, bb)

	bb = apply(t, e, rstDirective("activecode", nil,
		para("ac1"),
		&pandoc.Para{Inlines: pandoc.Text("intro\n~~~~\nprint(1)\n====\nprint(2)")},
	))
	assert.Equal(t, pandoc.BlockList{
		para("intro"),
		comment("code"),
		codeBlock("python", "print(1)"),
		comment("hidden code"),
		codeBlock("python", "print(2)"),
		comment("end hidden code"),
	}, bb)
}

func TestParsons(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, mdDirective("parsons", "Order these.\n-----\na = 1\n\nprint(a)\n"))
	assert.Equal(t, "Order these.\n\nCorrect order:\n\n1. `a = 1`\n2. `print(a)`\n", markdown.Render(bb))

	// rst turns the separator into a transition
	bb = apply(t, e, rstDirective("parsonsprob", nil,
		para("p1"),
		para("Order these."),
		&pandoc.HorizontalRule{},
		&pandoc.Para{Inlines: pandoc.Text("a = 1\nprint(a)")},
	))
	assert.Equal(t, "Order these.\n\nCorrect order:\n\n1. `a = 1`\n2. `print(a)`\n", markdown.Render(bb))

	bb = apply(t, e, mdDirective("parsons", "No separator."))
	assert.Equal(t, pandoc.BlockList{para("No separator.")}, bb)
}

func TestParsonsSegments(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"prompt only", "Just a prompt.", "Just a prompt.\n"},
		{"empty order", "Prompt.\n-----\n\n", "Prompt.\n"},
		{"tail ignored", "Prompt.\n-----\nfirst\nsecond\n-----\nnot used\n-----\nnor this", "Prompt.\n\nCorrect order:\n\n1. `first`\n2. `second`\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := apply(t, NewEngine(nil, nil), mdDirective("parsons", tt.body))
			assert.Equal(t, tt.want, markdown.Render(bb))
		})
	}
}

func TestActivecodeIncludePriority(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"x.py": "x_code()", "h.py": "h_code()", "s.py": "s_code()"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0644))
	}

	tests := []struct {
		name string
		opts string
		want string
	}{
		{"src wins", ":includesrc: s.py\n:includexsrc: x.py\n:includehsrc: h.py\n", "s_code()"},
		{"missing src falls through", ":includesrc: gone.py\n:includexsrc: x.py\n:includehsrc: h.py\n", "x_code()"},
		{"only hsrc", ":includehsrc: h.py\n", "h_code()"},
		{"all missing", ":includesrc: a.py\n:includexsrc: b.py\n", ""},
	}
	e := NewEngine(nil, map[string]string{RepoBaseDirKey: dir})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := apply(t, e, mdDirective("activecode", tt.opts+"run()\n====\ncheck()"))
			hidden := "check()"
			if tt.want != "" {
				hidden += "\n" + tt.want
			}
			assert.Equal(t, pandoc.BlockList{
				comment("code"),
				codeBlock("python", "run()"),
				comment("hidden code"),
				codeBlock("python", hidden),
			}, bb)
		})
	}
}

func TestNotesAndText(t *testing.T) {
	e := NewEngine(nil, nil)
	for _, class := range []string{"questionnote", "suggestionnote", "technicalnote", "infonote", "learnmorenote"} {
		bb := apply(t, e, rstDirective(class, nil, para("Remember"), para("this.")))
		assert.Equal(t, "Remember\n\nthis.\n", markdown.Render(bb), class)
	}

	bb := apply(t, e, mdDirective("reveal", ":showtitle: Show\nHidden answer"))
	assert.Equal(t, pandoc.BlockList{&pandoc.Para{Inlines: pandoc.InlineList{&pandoc.Str{Text: "Hidden answer"}}}}, bb)
}

func TestCodeDirectives(t *testing.T) {
	e := NewEngine(nil, nil)

	bb := apply(t, e, rstDirective("pycode", nil, para("p1"), para("print(1)")))
	assert.Equal(t, pandoc.BlockList{codeBlock("python", "print(1)")}, bb)

	bb = apply(t, e, mdDirective("dbquery", "SELECT 1;\n"))
	assert.Equal(t, pandoc.BlockList{codeBlock("sql", "SELECT 1;")}, bb)

	bb = apply(t, e, mdDirective("karel", "move()"))
	assert.Equal(t, pandoc.BlockList{codeBlock("karel", "move()")}, bb)

	bb = apply(t, e, mdDirective("karel", "\n"))
	assert.Empty(t, bb)
}

func TestYoutubePopup(t *testing.T) {
	e := NewEngine(nil, nil)
	bb := apply(t, e, rstDirective("ytpopup", nil, para("dQw4w9WgXcQ")))
	require.Len(t, bb, 1)
	d := bb[0].(*pandoc.Div)
	assert.Equal(t, []string{"text"}, d.Attr.Classes)
	raw := d.Blocks[0].(*pandoc.RawBlock)
	assert.Equal(t, "html", raw.Format)
	assert.Contains(t, raw.Text, "https://www.youtube.com/embed/dQw4w9WgXcQ")

	bb = apply(t, e, mdDirective("ytpopup", ":id: abc\n"))
	assert.Contains(t, bb[0].(*pandoc.Div).Blocks[0].(*pandoc.RawBlock).Text, "/embed/abc\"")
}

func TestNormalize(t *testing.T) {
	_, ok := Normalize(nil)
	assert.False(t, ok)

	bb, ok := Normalize("text")
	assert.True(t, ok)
	assert.Equal(t, pandoc.BlockList{&pandoc.Para{Inlines: pandoc.InlineList{&pandoc.Str{Text: "text"}}}}, bb)

	bb, ok = Normalize(&pandoc.HorizontalRule{})
	assert.True(t, ok)
	assert.Len(t, bb, 1)

	bb, ok = Normalize([]pandoc.Block{&pandoc.HorizontalRule{}, &pandoc.HorizontalRule{}})
	assert.True(t, ok)
	assert.Len(t, bb, 2)

	bb, ok = Normalize(pandoc.BlockList{})
	assert.True(t, ok)
	assert.Empty(t, bb)

	_, ok = Normalize(pandoc.BlockList(nil))
	assert.False(t, ok)

	_, ok = Normalize(3.14)
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	ll := pandoc.InlineList{
		&pandoc.Str{Text: "a"}, &pandoc.Space{},
		&pandoc.Formatted{Fmt: pandoc.Strong, Content: pandoc.Text("b")},
		&pandoc.LineBreak{},
		&pandoc.Code{Text: "c"}, &pandoc.Math{Text: "x^2"},
		&pandoc.Link{Content: pandoc.Text("link")},
		&pandoc.RawInline{Format: "html", Text: "<b>"},
	}
	assert.Equal(t, "a b\ncx^2link", Stringify(ll))

	bb := pandoc.BlockList{
		para("one"),
		&pandoc.DefinitionList{Items: []*pandoc.DefinitionItem{{Term: pandoc.Text("hidden")}}},
		&pandoc.BulletList{Items: []pandoc.BlockList{{para("x")}, {para("y")}}},
	}
	assert.Equal(t, "one\nxy", Stringify(bb))
	assert.Equal(t, "one\n\n\n\n\nxy", StringifyBlocks(bb))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range []string{
		"mchoice", "fillintheblank", "fitb", "parsonsprob", "parsons", "dragndrop",
		"ytpopup", "karel", "activecode", "questionnote", "suggestionnote",
		"technicalnote", "infonote", "learnmorenote", "reveal", "quizq", "pycode", "dbquery",
	} {
		d, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.NotNil(t, d.Handler(RST), name)
		assert.NotNil(t, d.Handler(Markdown), name)
	}
	assert.Len(t, r.Names(), 18)

	d, _ := r.Lookup("infonote")
	assert.False(t, d.RequiresID)
	d, _ = r.Lookup("mchoice")
	assert.True(t, d.RequiresID)

	var nilReg *Registry
	_, ok := nilReg.Lookup("mchoice")
	assert.False(t, ok)

	assert.Equal(t, "rst", RST.String())
	assert.Equal(t, "markdown", Markdown.String())
}
