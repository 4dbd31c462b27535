package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxscope/pkg/ast"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	def := Default()
	assert.Equal(t, def.Dialect, cfg.Dialect)
	assert.Equal(t, def.Index, cfg.Index)
	assert.Equal(t, def.Logging, cfg.Logging)
	assert.Equal(t, ast.LanguageCPP, cfg.Language())
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	content := `dialect: c
gnu: true
includePaths: [include, third_party]
defines: [DEBUG, LEVEL=3]
workers: 2
index:
  path: out/index.db
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, ast.LanguageC, cfg.Language())
	assert.True(t, cfg.GNU)
	assert.Equal(t, []string{"include", "third_party"}, cfg.IncludePaths)
	assert.Equal(t, map[string]string{"DEBUG": "1", "LEVEL": "3"}, cfg.DefineMap())
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "out/index.db", cfg.Index.Path)
	// untouched keys keep their defaults
	assert.Equal(t, Default().Index.Include, cfg.Index.Include)
	assert.Equal(t, "json", cfg.Logging.Format)

	opts := cfg.ParserOptions(nil)
	assert.Equal(t, ast.LanguageC, opts.Language)
	assert.True(t, opts.GNU)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown dialect", func(c *Config) { c.Dialect = "rust" }, "dialect"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"define without name", func(c *Config) { c.Defines = []string{"=1"} }, "defines"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	cfg := Default()
	cfg.Defines = []string{"FOO=bar"}
	require.NoError(t, cfg.Save(path, false))

	err := cfg.Save(path, false)
	assert.ErrorIs(t, err, fs.ErrExist)
	require.NoError(t, cfg.Save(path, true))

	loaded, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Defines, loaded.Defines)
	assert.Equal(t, cfg.Index, loaded.Index)
}
