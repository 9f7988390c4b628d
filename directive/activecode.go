package directive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adnsv/go-utils/fs"
)

const (
	proseSeparator  = "~~~~"
	hiddenSeparator = "===="
)

// includeKeys are tried in order, the first file that exists is used.
var includeKeys = []string{"includesrc", "includexsrc", "includehsrc"}

type codeParts struct {
	prose   string
	visible string
	hidden  string
}

// splitCode cuts an activecode body into prose, visible code and hidden
// code. Without a prose separator the whole body is code; without a hidden
// separator all code is visible.
func splitCode(text string) codeParts {
	p := codeParts{}
	rest := text
	if before, after, ok := strings.Cut(text, proseSeparator); ok {
		p.prose, rest = before, after
	}
	p.visible = rest
	if before, after, ok := strings.Cut(rest, hiddenSeparator); ok {
		p.visible, p.hidden = before, after
	}
	p.prose = strings.TrimSpace(p.prose)
	p.visible = strings.TrimSpace(p.visible)
	p.hidden = strings.TrimSpace(p.hidden)
	return p
}

// readInclude loads the first include file named in the options, looked up
// relative to repo_base_dir. Missing root or file yields "".
func readInclude(in *Input) string {
	root := in.Option(RepoBaseDirKey)
	if root == "" {
		return ""
	}
	for _, k := range includeKeys {
		name := in.Option(k)
		if name == "" {
			continue
		}
		fn := filepath.Join(root, filepath.FromSlash(name))
		if !fs.FileExists(fn) {
			continue
		}
		buf, err := os.ReadFile(fn)
		if err != nil {
			continue
		}
		return strings.TrimRight(string(buf), "\r\n")
	}
	return ""
}

func activecodeHandler(dl Dialect) HandlerFunc {
	return func(in *Input) any {
		p := splitCode(in.Text)
		if inc := readInclude(in); inc != "" {
			if p.hidden == "" {
				p.hidden = inc
			} else {
				p.hidden += "\n" + inc
			}
		}

		lang := in.Option("language")
		if lang == "" {
			lang = "python"
		}

		bb := appendPara(nothing(), p.prose)
		if p.visible != "" {
			bb = append(bb, comment("code"), codeBlock(lang, p.visible))
		}
		if p.hidden != "" {
			bb = append(bb, comment("hidden code"), codeBlock(lang, p.hidden))
			if dl == RST {
				bb = append(bb, comment("end hidden code"))
			}
		}
		return bb
	}
}
