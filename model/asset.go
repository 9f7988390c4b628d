package model

import (
	"path/filepath"
	"strings"
)

type SourceFormat int

const (
	FormatUnsupported = SourceFormat(iota)
	FormatRST
	FormatMarkdown
)

// ActivityFile is a document found in a course repository.
type ActivityFile struct {
	AbsSrcFilePath string
	RelFilePath    string // relative to the repository root, slash separated
	Format         SourceFormat
}

// String returns the name of the pandoc reader for the format.
func (f SourceFormat) String() string {
	switch f {
	case FormatRST:
		return "rst"
	case FormatMarkdown:
		return "markdown"
	default:
		return "<unsupported>"
	}
}

func FormatFromFileExt(ext string) SourceFormat {
	switch strings.ToLower(ext) {
	case ".rst":
		return FormatRST
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatUnsupported
}

func newActivityFile(repoDIR, absFN string) (*ActivityFile, error) {
	rel, err := filepath.Rel(repoDIR, absFN)
	if err != nil {
		return nil, err
	}
	return &ActivityFile{
		AbsSrcFilePath: absFN,
		RelFilePath:    filepath.ToSlash(rel),
		Format:         FormatFromFileExt(filepath.Ext(absFN)),
	}, nil
}

func normalizePath(refdir string, fn string) string {
	if fn == "" {
		return fn
	}
	if !filepath.IsAbs(fn) {
		fn = filepath.Join(refdir, fn)
	}
	return filepath.Clean(fn)
}
