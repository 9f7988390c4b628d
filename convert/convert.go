// Package convert turns course documents into neutral Markdown by running
// pandoc around the directive engine.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Petlja/data-preprocessing/directive"
	"github.com/Petlja/data-preprocessing/markdown"
	"github.com/Petlja/data-preprocessing/model"
	"github.com/Petlja/data-preprocessing/pandoc"
	"github.com/adnsv/go-utils/fs"
	"github.com/charmbracelet/log"
)

type Converter struct {
	Pandoc   *Pandoc
	Registry *directive.Registry // nil selects the default directive set

	// RepoBaseDir becomes the repo_base_dir metadata entry of documents
	// that do not define one.
	RepoBaseDir string

	Builtin       bool // render with markdown.Render instead of pandoc
	RewriteRawRST bool

	Log *log.Logger
}

func (c *Converter) logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return log.Default()
}

func (c *Converter) engine(d *pandoc.Document) *directive.Engine {
	e := directive.NewEngine(c.Registry, d.ParseMeta())
	e.RewriteRawRST = c.RewriteRawRST
	return e
}

// Transform filters a pandoc JSON document and returns the rewritten JSON.
func (c *Converter) Transform(jbuf []byte) ([]byte, error) {
	d, bb, err := c.transform(jbuf)
	if err != nil {
		return nil, err
	}
	return d.Encode(bb)
}

func (c *Converter) transform(jbuf []byte) (*pandoc.Document, pandoc.BlockList, error) {
	d, err := pandoc.NewDocument(jbuf)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid pandoc json > %w", err)
	}
	if c.RepoBaseDir != "" {
		if _, set := d.ParseMeta()[directive.RepoBaseDirKey]; !set {
			d.SetMetaString(directive.RepoBaseDirKey, c.RepoBaseDir)
		}
	}
	bb, err := c.engine(d).FilterDocument(d)
	if err != nil {
		return nil, nil, err
	}
	return d, bb, nil
}

// Filter implements the pandoc JSON filter protocol: a document is read
// from r and the filtered document is written to w.
func (c *Converter) Filter(r io.Reader, w io.Writer) error {
	jbuf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := c.Transform(jbuf)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Markdown converts a single source document to neutral Markdown.
func (c *Converter) Markdown(ctx context.Context, srcFN string) ([]byte, error) {
	p := c.Pandoc
	if p == nil {
		p = &Pandoc{}
	}

	f := model.FormatFromFileExt(filepath.Ext(srcFN))
	jbuf, err := p.ReadJSON(ctx, srcFN, f)
	if err != nil {
		return nil, err
	}
	d, bb, err := c.transform(jbuf)
	if err != nil {
		return nil, fmt.Errorf("%s > %w", srcFN, err)
	}

	if c.Builtin {
		return []byte(markdown.Render(bb)), nil
	}
	out, err := d.Encode(bb)
	if err != nil {
		return nil, fmt.Errorf("%s > %w", srcFN, err)
	}
	return p.WriteMarkdown(ctx, out)
}

// File converts srcFN and writes the result to dstFN. The destination is
// left untouched when its content does not change.
func (c *Converter) File(ctx context.Context, srcFN, dstFN string) error {
	c.logger().Debug("converting", "src", srcFN, "dst", dstFN)

	buf, err := c.Markdown(ctx, srcFN)
	if err != nil {
		return err
	}
	buf = bytes.TrimRight(buf, "\n")
	buf = append(buf, '\n')

	err = os.MkdirAll(filepath.Dir(dstFN), 0755)
	if err != nil {
		return err
	}
	return fs.WriteFileIfChanged(dstFN, buf)
}
