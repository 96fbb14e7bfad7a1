package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chzyer/logex"
	"github.com/nalgeon/be"

	"github.com/tos-network/flint/flint/sema"
)

func TestDefault(t *testing.T) {
	c := Default()
	be.Equal(t, c.Color, ColorAuto)
	be.Equal(t, c.LogLevel, LogError)
	be.True(t, c.UsePrelude())
	be.Equal(t, len(c.Passes), 0)

	opts, err := c.SemaOptions()
	be.Err(t, err, nil)
	be.Equal(t, len(opts.Passes), 0)
	be.Equal(t, opts.NoPrelude, false)
}

func TestParse(t *testing.T) {
	src := []byte(`
passes: [semantic-analyzer]
stop_on_error: true
color: Never
log_level: debug
prelude: false
`)
	c, err := Parse(src, "flintc.yaml")
	be.Err(t, err, nil)
	be.Equal(t, c.Passes, []string{sema.AnalyzerPassName})
	be.True(t, c.StopOnError)
	be.Equal(t, c.Color, ColorNever)
	be.Equal(t, c.UsePrelude(), false)

	opts, err := c.SemaOptions()
	be.Err(t, err, nil)
	be.True(t, opts.StopOnError)
	be.True(t, opts.NoPrelude)
	be.Equal(t, len(opts.Passes), 2)
	be.Equal(t, opts.Passes[0].Name(), sema.BuilderPassName)
	be.Equal(t, opts.Passes[1].Name(), sema.AnalyzerPassName)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse([]byte("color: sometimes\n"), "a.yaml")
	be.Err(t, err, "color")

	_, err = Parse([]byte("log_level: trace\n"), "b.yaml")
	be.Err(t, err, "log_level")

	_, err = Parse([]byte("passes: [optimizer]\n"), "c.yaml")
	be.Err(t, err, "optimizer")

	_, err = Parse([]byte("passes: {"), "d.yaml")
	be.Err(t, err, "parsing d.yaml")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	c, err := LoadOptional(path)
	be.Err(t, err, nil)
	be.Equal(t, c.Color, ColorAuto)

	_, err = Load(path)
	be.Err(t, err, "reading")

	err = os.WriteFile(path, []byte("color: always\n"), 0o644)
	be.Err(t, err, nil)
	c, err = LoadOptional(path)
	be.Err(t, err, nil)
	be.Equal(t, c.Color, ColorAlways)
}

func TestUseColor(t *testing.T) {
	c := Default()
	be.True(t, c.UseColor(true))
	be.Equal(t, c.UseColor(false), false)

	c.Color = ColorAlways
	be.True(t, c.UseColor(false))
	c.Color = ColorNever
	be.Equal(t, c.UseColor(true), false)
}

func TestApplyLogLevel(t *testing.T) {
	old := logex.DebugLevel
	defer func() { logex.DebugLevel = old }()

	c := Default()
	c.LogLevel = LogInfo
	c.ApplyLogLevel()
	be.Equal(t, logex.DebugLevel, 2)

	c.LogLevel = LogError
	c.ApplyLogLevel()
	be.Equal(t, logex.DebugLevel, 0)
}
