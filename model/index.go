package model

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CourseIndex mirrors `_sources/index.yaml` of a petljadoc course. Only the
// fields needed to locate activity files are used, the rest is carried along.
type CourseIndex struct {
	CourseID    string                 `yaml:"courseId"`
	Lang        string                 `yaml:"lang"`
	Title       string                 `yaml:"title"`
	Description map[string]interface{} `yaml:"description"`
	Lessons     []*Lesson              `yaml:"lessons"`

	dir string `yaml:"-"`
}

type Lesson struct {
	Title       string      `yaml:"title"`
	Folder      string      `yaml:"folder"`
	Guid        string      `yaml:"guid"`
	Description string      `yaml:"description"`
	Activities  []*Activity `yaml:"activities"`
}

type Activity struct {
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	File        string `yaml:"file"`
	Description string `yaml:"description"`
	Guid        string `yaml:"guid"`
}

// IsConvertible reports whether the activity holds document content.
// Videos, external links and the like are skipped.
func (a *Activity) IsConvertible() bool {
	return a.Type == "reading" || a.Type == "quiz"
}

func LoadCourseIndex(fn string) (*CourseIndex, error) {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	idx := &CourseIndex{dir: filepath.Dir(fn)}
	err = yaml.Unmarshal(buf, idx)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// ActivityPath is the location of an activity file, relative paths are
// resolved against the directory of the index file.
func (idx *CourseIndex) ActivityPath(l *Lesson, a *Activity) string {
	return normalizePath(idx.dir, filepath.Join(l.Folder, a.File))
}
