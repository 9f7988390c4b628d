// Command pandoc-directives is the directive engine packaged for
// `pandoc --filter pandoc-directives`. Pandoc passes the target format as
// the only argument, the document travels through stdin and stdout.
package main

import (
	"os"

	"github.com/Petlja/data-preprocessing/convert"
	"github.com/charmbracelet/log"
	cli "github.com/jawher/mow.cli"
)

func main() {
	format := ""
	rawRST := os.Getenv("PANDOC_DIRECTIVES_RAW_RST") != ""

	app := cli.App("pandoc-directives", "pandoc JSON filter that rewrites course directives")
	app.Spec = "[FORMAT]"
	app.StringArgPtr(&format, "FORMAT", "", "target format (ignored)")

	app.Action = func() {
		c := &convert.Converter{
			RepoBaseDir:   os.Getenv("REPO_BASE_DIR"),
			RewriteRawRST: rawRST,
			Log:           log.New(os.Stderr),
		}
		if err := c.Filter(os.Stdin, os.Stdout); err != nil {
			c.Log.Fatal("filter failed", "format", format, "err", err)
		}
	}

	app.Run(os.Args)
}
