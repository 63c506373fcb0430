package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courseflow.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Empty(t, cfg.OutputPrefix)
	assert.Equal(t, "blue", cfg.Style("topics").TaughtColor)
	assert.Empty(t, cfg.Style("topics").GraphAttrs)
	assert.Equal(t, "ortho", cfg.Style("full").GraphAttrs["splines"])
	assert.Equal(t, "1", cfg.Style("event").GraphAttrs["ranksep"])
}

func TestLoad(t *testing.T) {
	t.Run("overlays file values onto defaults", func(t *testing.T) {
		path := writeConfig(t, `
output {
  dir    = "charts"
  prefix = "cs101_"
}

chart "full" {
  graph_attrs = {
    ranksep = 2
    rankdir = "LR"
  }
  taught_color   = "darkgreen"
  required_color = "gray"
}
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "charts", cfg.OutputDir)
		assert.Equal(t, "cs101_", cfg.OutputPrefix)

		full := cfg.Style("full")
		assert.Equal(t, "darkgreen", full.TaughtColor)
		assert.Equal(t, "gray", full.RequiredColor)
		// Numbers convert to strings, file attrs override defaults, and
		// untouched defaults survive.
		assert.Equal(t, "2", full.GraphAttrs["ranksep"])
		assert.Equal(t, "LR", full.GraphAttrs["rankdir"])
		assert.Equal(t, "ortho", full.GraphAttrs["splines"])

		// Charts the file never mentions keep their defaults.
		assert.Equal(t, "blue", cfg.Style("topics").TaughtColor)
	})

	t.Run("partial output block", func(t *testing.T) {
		path := writeConfig(t, `
output {
  prefix = "v2_"
}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "output", cfg.OutputDir)
		assert.Equal(t, "v2_", cfg.OutputPrefix)
	})

	t.Run("unknown chart name fails", func(t *testing.T) {
		path := writeConfig(t, `
chart "sunburst" {
  taught_color = "red"
}
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, `unknown chart "sunburst"`)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
		assert.ErrorContains(t, err, "loading config")
	})

	t.Run("non-map graph_attrs fails", func(t *testing.T) {
		path := writeConfig(t, `
chart "topics" {
  graph_attrs = "rankdir=LR"
}
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "graph_attrs must be a map of strings")
	})
}
