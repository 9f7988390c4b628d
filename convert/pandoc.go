package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Petlja/data-preprocessing/model"
)

// ErrMissingPandoc is returned when the pandoc executable cannot be found.
var ErrMissingPandoc = errors.New("pandoc executable not found")

// Pandoc runs the external pandoc converter.
type Pandoc struct {
	Exec string // executable name or path, defaults to "pandoc"
}

func (p *Pandoc) path() (string, error) {
	exe := p.Exec
	if exe == "" {
		exe = "pandoc"
	}
	fn, err := exec.LookPath(exe)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingPandoc, exe)
	}
	return fn, nil
}

// Available reports ErrMissingPandoc when the executable is not on the path.
func (p *Pandoc) Available() error {
	_, err := p.path()
	return err
}

func (p *Pandoc) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	exe, err := p.path()
	if err != nil {
		return nil, err
	}

	x := exec.CommandContext(ctx, exe, args...)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	x.Stdout = stdout
	x.Stderr = stderr
	if stdin != nil {
		x.Stdin = bytes.NewReader(stdin)
	}
	err = x.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("pandoc error: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("pandoc error: %w", err)
	}
	return stdout.Bytes(), nil
}

// ReadJSON converts a source file to the pandoc JSON AST.
func (p *Pandoc) ReadJSON(ctx context.Context, srcFN string, f model.SourceFormat) ([]byte, error) {
	if f == model.FormatUnsupported {
		return nil, fmt.Errorf("unsupported source format: %s", srcFN)
	}
	return p.run(ctx, nil, "-f", f.String(), "-t", "json", srcFN)
}

// WriteMarkdown converts a pandoc JSON AST to Markdown.
func (p *Pandoc) WriteMarkdown(ctx context.Context, jbuf []byte) ([]byte, error) {
	return p.run(ctx, jbuf, "-f", "json", "-t", "markdown")
}
