// Package config reads the settings of the batch tool.
//
// The file is yaml, all keys are optional:
//
//	base-dir: repos        # directory holding the course repositories
//	output-dir: dataset    # converted documents go here
//	jobs: 8                # parallel conversions
//	pandoc: pandoc         # pandoc executable
//	writer: pandoc         # pandoc or builtin
//	raw-rst: false         # rewrite raw rst directives inside Markdown
//	log-level: info
//
// Relative directories are resolved against the location of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	WriterPandoc  = "pandoc"
	WriterBuiltin = "builtin"
)

type Config struct {
	path string `yaml:"-"`
	dir  string `yaml:"-"`

	BaseDir   string `yaml:"base-dir"`
	OutputDir string `yaml:"output-dir"`
	Jobs      int    `yaml:"jobs"`

	Pandoc        string `yaml:"pandoc"`
	Writer        string `yaml:"writer"`
	RewriteRawRST bool   `yaml:"raw-rst"`

	LogLevel string `yaml:"log-level"`
}

func Default() *Config {
	return &Config{
		BaseDir:   "repos",
		OutputDir: "dataset",
		Jobs:      runtime.NumCPU(),
		Pandoc:    "pandoc",
		Writer:    WriterPandoc,
		LogLevel:  "info",
	}
}

// Open loads fn on top of the defaults.
func Open(fn string) (*Config, error) {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	c := Default()
	c.path = fn
	c.dir = filepath.Dir(fn)
	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("config %s > %w", fn, err)
	}

	c.BaseDir = normalizePath(c.dir, c.BaseDir)
	c.OutputDir = normalizePath(c.dir, c.OutputDir)
	return c, c.Validate()
}

// Path is the file the config was loaded from, empty for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("invalid jobs value: %d", c.Jobs)
	}
	switch c.Writer {
	case WriterPandoc, WriterBuiltin:
	default:
		return fmt.Errorf("unsupported writer: %q", c.Writer)
	}
	if c.Pandoc == "" {
		return fmt.Errorf("pandoc executable is not set")
	}
	return nil
}

func normalizePath(dir string, fn string) string {
	if fn == "" || filepath.IsAbs(fn) {
		return fn
	}
	return filepath.Clean(filepath.Join(dir, fn))
}
