package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cxxscope/pkg/config"
)

// resetFlags restores every flag to its default so runs do not leak
// settings into each other
func resetFlags(c *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args and returns what it printed
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	configFile, logLevel, logFormat, dialect = "", "", "", ""
	gnu, includePaths, defines = false, nil, nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestParseOffset(t *testing.T) {
	content := "int a;\nint bb;\n"
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"11", 11, false},
		{"1:5", 4, false},
		{"2:5", 11, false},
		{"2:8", 14, false},
		{"2:9", 0, true},
		{"4:1", 0, true},
		{"0:1", 0, true},
		{"x", 0, true},
		{"99", 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseOffset(content, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSON(t *testing.T) {
	workspace(t, map[string]string{"a.cpp": "namespace N { int f(); }\nint x = ;\n"})

	out, err := run(t, "parse", "-f", "json", "a.cpp")
	require.NoError(t, err)

	var result struct {
		Filename     string
		Language     string
		Declarations []jsonDeclaration
		Problems     []jsonProblem
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "a.cpp", result.Filename)
	assert.Equal(t, "c++", result.Language)
	var names []string
	for _, d := range result.Declarations {
		names = append(names, d.QualifiedName)
	}
	assert.Contains(t, names, "N::f")
	require.NotEmpty(t, result.Problems)
	assert.Equal(t, 2, result.Problems[0].Line)
}

func TestParseHuman(t *testing.T) {
	workspace(t, map[string]string{"a.c": "struct point { int x; };\nint origin;\n"})

	out, err := run(t, "--dialect", "c", "parse", "a.c")
	require.NoError(t, err)
	assert.Contains(t, out, "Parsed file: a.c")
	assert.Contains(t, out, "struct point (defined)")
	assert.Contains(t, out, "Problems: 0")
}

func TestResolveUnresolvedOnly(t *testing.T) {
	workspace(t, map[string]string{"a.cpp": "int f();\nint main() { return f() + g(); }\n"})

	out, err := run(t, "resolve", "-u", "a.cpp")
	require.NoError(t, err)
	assert.Contains(t, out, "a.cpp:2:")
	assert.Contains(t, out, "g: not found")
	assert.NotContains(t, out, "-> function")
	assert.Contains(t, out, "1 unresolved")
}

func TestPrintOutline(t *testing.T) {
	workspace(t, map[string]string{"a.cpp": "namespace N {\nstruct S { int m; };\n}\n"})

	out, err := run(t, "print", "--outline", "a.cpp")
	require.NoError(t, err)
	assert.Equal(t, "namespace N (defined) 1:11\n  struct S (defined) 2:8\n    variable m (defined) 2:16\n", out)
}

func TestPrintTree(t *testing.T) {
	workspace(t, map[string]string{"a.cpp": "int x = 1;\nint y = x;\n"})

	out, err := run(t, "print", "-b", "a.cpp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "TranslationUnit a.cpp\n"))
	assert.Contains(t, out, `Name "x" -> variable x`)
}

func TestComplete(t *testing.T) {
	content := "int counter;\nint count2;\nint other;\nvoid f() { cou"
	workspace(t, map[string]string{"a.cpp": content})

	out, err := run(t, "complete", "a.cpp", "4:15")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "count2\tvariable"))
	assert.True(t, strings.HasPrefix(lines[1], "counter\tvariable"))
}

func TestSelect(t *testing.T) {
	workspace(t, map[string]string{"a.cpp": "int value = 1;\n"})

	out, err := run(t, "select", "a.cpp", "4", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Name a.cpp:1:5")
	assert.Contains(t, out, "name: value")
	assert.Contains(t, out, "binding: variable value")

	_, err = run(t, "select", "a.cpp", "3", "2")
	assert.Error(t, err, "selection off token boundaries")
}

func TestIndexAndFind(t *testing.T) {
	workspace(t, map[string]string{
		"src/a.cpp":       "int helper() { return 1; }\n",
		"src/b.cpp":       "int helper();\nint user() { return helper(); }\n",
		"src/build/c.cpp": "int helper() { return 2; }\n",
	})

	out, err := run(t, "index", "src")
	require.NoError(t, err)
	assert.Contains(t, out, "2 indexed")

	out, err = run(t, "index", "src")
	require.NoError(t, err)
	assert.Contains(t, out, "2 unchanged")

	out, err = run(t, "find", "helper")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "a.cpp:1:5: definition function helper")
	assert.Contains(t, lines[1], "b.cpp:1:5: declaration function helper")

	// the call in b.cpp goes to the definition in a.cpp
	out, err = run(t, "find", filepath.Join("src", "b.cpp"), "2:21", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "a.cpp:1:5: definition function helper")

	out, err = run(t, "find", "-r", filepath.Join("src", "b.cpp"), "2:21", "6")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = run(t, "find", "nothing")
	assert.Error(t, err)
	_, err = run(t, "find", "a", "b")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := workspace(t, nil)

	out, err := run(t, "config", "init", "--dialect", "c", "-I", "include")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	loaded, err := config.Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "c", loaded.Dialect)
	assert.Equal(t, []string{"include"}, loaded.IncludePaths)

	_, err = run(t, "config", "init")
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, "config", "init", "--overwrite")
	assert.NoError(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dialect: c\n")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	workspace(t, nil)

	out, err := run(t, "-I", "first", "-D", "ONE=1", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "ONE=1")

	out, err = run(t, "-I", "second", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first")
	assert.NotContains(t, out, "ONE=1")

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "second")
}

func TestInvalidDialect(t *testing.T) {
	workspace(t, nil)
	_, err := run(t, "--dialect", "cobol", "version")
	assert.ErrorContains(t, err, "dialect")
}

func TestVersion(t *testing.T) {
	workspace(t, nil)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cxxscope dev")
}
