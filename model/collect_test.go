package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fn, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(fn), 0755))
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
}

const courseIndex = `courseId: intro-python
lang: sr-Latn
title: Intro
lessons:
  - title: Basics
    folder: basics
    activities:
      - type: reading
        title: Variables
        file: variables.rst
      - type: video
        title: Talk
        src: https://example.com/v
      - type: quiz
        title: Check
        file: quiz.md
      - type: reading
        title: Gone
        file: missing.rst
`

func TestCollectPetljadoc(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "_sources", "index.yaml"), courseIndex)
	writeFile(t, filepath.Join(repo, "_sources", "basics", "variables.rst"), "Variables\n=========\n")
	writeFile(t, filepath.Join(repo, "_sources", "basics", "quiz.md"), "# Quiz\n")

	files, err := CollectActivityFiles(repo)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "_sources/basics/variables.rst", files[0].RelFilePath)
	assert.Equal(t, FormatRST, files[0].Format)
	assert.Equal(t, "_sources/basics/quiz.md", files[1].RelFilePath)
	assert.Equal(t, FormatMarkdown, files[1].Format)
	assert.True(t, filepath.IsAbs(files[0].AbsSrcFilePath))
}

func TestCollectPlct(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "source", "index.md"), "# Index\n")
	writeFile(t, filepath.Join(repo, "source", "b", "two.md"), "two\n")
	writeFile(t, filepath.Join(repo, "source", "a", "one.md"), "one\n")
	writeFile(t, filepath.Join(repo, "source", "a", "index.md"), "# Index\n")
	writeFile(t, filepath.Join(repo, "source", "a", "notes.txt"), "skip\n")

	files, err := CollectActivityFiles(repo)
	require.NoError(t, err)

	rel := []string{}
	for _, f := range files {
		rel = append(rel, f.RelFilePath)
	}
	assert.Equal(t, []string{"source/a/one.md", "source/b/two.md"}, rel)
}

func TestCollectNoIndex(t *testing.T) {
	_, err := CollectActivityFiles(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoIndex))
}

func TestLoadCourseIndex(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "index.yaml")
	writeFile(t, fn, courseIndex)

	idx, err := LoadCourseIndex(fn)
	require.NoError(t, err)
	assert.Equal(t, "intro-python", idx.CourseID)
	require.Len(t, idx.Lessons, 1)
	l := idx.Lessons[0]
	require.Len(t, l.Activities, 4)
	assert.False(t, l.Activities[1].IsConvertible())
	assert.Equal(t, filepath.Join(dir, "basics", "quiz.md"), idx.ActivityPath(l, l.Activities[2]))

	writeFile(t, fn, "lessons: [")
	_, err = LoadCourseIndex(fn)
	assert.Error(t, err)
}

func TestIsGitRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsGitRepo(dir))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	assert.True(t, IsGitRepo(dir))
}

func TestFormatFromFileExt(t *testing.T) {
	tests := []struct {
		ext    string
		want   SourceFormat
		reader string
	}{
		{".rst", FormatRST, "rst"},
		{".RST", FormatRST, "rst"},
		{".md", FormatMarkdown, "markdown"},
		{".markdown", FormatMarkdown, "markdown"},
		{".txt", FormatUnsupported, "<unsupported>"},
		{"", FormatUnsupported, "<unsupported>"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			f := FormatFromFileExt(tt.ext)
			assert.Equal(t, tt.want, f)
			assert.Equal(t, tt.reader, f.String())
		})
	}
}
