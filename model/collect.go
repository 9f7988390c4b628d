package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/adnsv/go-utils/fs"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrNoIndex is returned for repositories that have neither a petljadoc
// index nor a plct source tree.
var ErrNoIndex = errors.New("no recognized index file found")

// IsGitRepo reports whether dir is a git working copy.
func IsGitRepo(dir string) bool {
	return fs.DirExists(dir, ".git")
}

// CollectActivityFiles lists the convertible documents of a course
// repository. Petljadoc repositories are read through `_sources/index.yaml`,
// plct repositories contribute every Markdown file under `source/` except
// the index pages.
func CollectActivityFiles(repoDIR string) ([]*ActivityFile, error) {
	repoDIR, err := filepath.Abs(repoDIR)
	if err != nil {
		return nil, err
	}

	indexFN := filepath.Join(repoDIR, "_sources", "index.yaml")
	if fs.FileExists(indexFN) {
		return collectFromPetljadoc(repoDIR, indexFN)
	}
	sourceDIR := filepath.Join(repoDIR, "source")
	if fs.DirExists(sourceDIR) {
		return collectFromPlct(repoDIR, sourceDIR)
	}
	return nil, fmt.Errorf("%w in repo: %s", ErrNoIndex, repoDIR)
}

func collectFromPetljadoc(repoDIR, indexFN string) ([]*ActivityFile, error) {
	log.Debug("loading course index", "file", indexFN)
	idx, err := LoadCourseIndex(indexFN)
	if err != nil {
		return nil, fmt.Errorf("course index %s > %w", indexFN, err)
	}

	found := []*ActivityFile{}
	for _, l := range idx.Lessons {
		for _, a := range l.Activities {
			if !a.IsConvertible() || a.File == "" {
				continue
			}
			fn := idx.ActivityPath(l, a)
			if err := fs.ValidateFileExists(fn); err != nil {
				log.Warn("activity file not found", "file", fn)
				continue
			}
			af, err := newActivityFile(repoDIR, fn)
			if err != nil {
				return nil, err
			}
			found = append(found, af)
		}
	}
	return found, nil
}

func collectFromPlct(repoDIR, sourceDIR string) ([]*ActivityFile, error) {
	matches, err := doublestar.Glob(os.DirFS(sourceDIR), "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("scanning %s > %w", sourceDIR, err)
	}
	sort.Strings(matches)

	found := []*ActivityFile{}
	for _, m := range matches {
		if filepath.Base(m) == "index.md" {
			continue
		}
		af, err := newActivityFile(repoDIR, filepath.Join(sourceDIR, filepath.FromSlash(m)))
		if err != nil {
			return nil, err
		}
		found = append(found, af)
	}
	return found, nil
}
