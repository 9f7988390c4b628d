package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "repos", c.BaseDir)
	assert.Equal(t, "dataset", c.OutputDir)
	assert.Equal(t, WriterPandoc, c.Writer)
	assert.GreaterOrEqual(t, c.Jobs, 1)
	assert.Empty(t, c.Path())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "prep.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
base-dir: courses
output-dir: /tmp/out
jobs: 3
writer: builtin
raw-rst: true
log-level: debug
`), 0644))

	c, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, fn, c.Path())
	assert.Equal(t, filepath.Join(dir, "courses"), c.BaseDir)
	assert.Equal(t, filepath.Clean("/tmp/out"), c.OutputDir)
	assert.Equal(t, 3, c.Jobs)
	assert.Equal(t, WriterBuiltin, c.Writer)
	assert.True(t, c.RewriteRawRST)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "pandoc", c.Pandoc, "unset keys keep their defaults")
}

func TestOpenInvalid(t *testing.T) {
	dir := t.TempDir()

	fn := filepath.Join(dir, "bad-writer.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("writer: docx\n"), 0644))
	_, err := Open(fn)
	assert.ErrorContains(t, err, "unsupported writer")

	fn = filepath.Join(dir, "bad-jobs.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("jobs: 0\n"), 0644))
	_, err = Open(fn)
	assert.ErrorContains(t, err, "invalid jobs")

	fn = filepath.Join(dir, "bad-yaml.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("jobs: [\n"), 0644))
	_, err = Open(fn)
	assert.Error(t, err)

	_, err = Open(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
