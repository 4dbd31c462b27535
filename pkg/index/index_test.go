package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	return s
}

func TestStoreReplaceLookupRemove(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	s := openStore(t)
	defer s.Close()

	entries := []Entry{
		{Name: "f", QualifiedName: "N::f", Kind: "function", Offset: 10, Length: 1, Line: 1, Column: 11},
		{Name: "f", QualifiedName: "N::f", Kind: "function", Offset: 30, Length: 1, Line: 2, Column: 5, Definition: true},
		{Name: "S", QualifiedName: "S", Kind: "struct", Offset: 50, Length: 1, Line: 3, Column: 8, Definition: true},
	}
	require.NoError(t, s.Replace(ctx, "/src/a.cpp", "h1", entries))

	got, err := s.Lookup(ctx, "N::f")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Definition, "definitions sort first")
	assert.Equal(t, "/src/a.cpp", got[0].File)
	assert.Equal(t, 30, got[0].Offset)

	got, err = s.Lookup(ctx, "f")
	require.NoError(t, err)
	assert.Len(t, got, 2, "simple names match unqualified lookups")

	got, err = s.Lookup(ctx, "M::f")
	require.NoError(t, err)
	assert.Empty(t, got)

	hash, err := s.FileHash(ctx, "/src/a.cpp")
	require.NoError(t, err)
	assert.Equal(t, "h1", hash)

	// replacing drops the old entries
	require.NoError(t, s.Replace(ctx, "/src/a.cpp", "h2", entries[2:]))
	got, err = s.Lookup(ctx, "f")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Remove(ctx, "/src/a.cpp"))
	files, err := s.Files(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
	got, err = s.Lookup(ctx, "S")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, Hash("int x;"), Hash("int x;"))
	assert.NotEqual(t, Hash("int x;"), Hash("int y;"))
}

func TestCollect(t *testing.T) {
	content := `namespace N {
int f(int p);
int f(int p) { int local = p; return local; }
struct S { int m; };
}
`
	p := parser.New(parser.Options{Language: ast.LanguageCPP, Mode: parser.ModeFull, Reader: parser.MapFileReader{}})
	tu, err := p.Parse(context.Background(), "a.cpp", content)
	require.NoError(t, err)

	byName := map[string][]Entry{}
	for _, e := range Collect(tu) {
		assert.NotContains(t, []string{"local", "p"}, e.Name)
		byName[e.QualifiedName] = append(byName[e.QualifiedName], e)
	}
	require.Len(t, byName["N::f"], 2)
	assert.False(t, byName["N::f"][0].Definition)
	assert.True(t, byName["N::f"][1].Definition)
	assert.Equal(t, 2, byName["N::f"][0].Line)
	require.Len(t, byName["N::S"], 1)
	assert.Equal(t, "struct", byName["N::S"][0].Kind)
	require.Len(t, byName["N::S::m"], 1)
	assert.Equal(t, "variable", byName["N::S::m"][0].Kind)
	require.Len(t, byName["N"], 1)
	assert.Equal(t, "namespace", byName["N"][0].Kind)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newIndexer(s *Store) *Indexer {
	return &Indexer{
		Store:   s,
		Parser:  parser.Options{Language: ast.LanguageCPP},
		Workers: 2,
		Include: []string{"**/*.{cpp,h}"},
		Exclude: []string{"**/build/**"},
	}
}

func TestIndexerRun(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.cpp"), "int alpha() { return 1; }\n")
	writeFile(t, filepath.Join(root, "lib", "b.h"), "struct Beta { int x; };\n")
	writeFile(t, filepath.Join(root, "build", "gen.cpp"), "int generated;\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "int ignored;\n")

	s := openStore(t)
	defer s.Close()
	ix := newIndexer(s)

	stats, err := ix.Run(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Indexed: 2}, stats)

	got, err := s.Lookup(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Definition)
	assert.Equal(t, "a.cpp", filepath.Base(got[0].File))

	got, err = s.Lookup(ctx, "generated")
	require.NoError(t, err)
	assert.Empty(t, got)

	// nothing changed
	stats, err = ix.Run(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 2}, stats)

	writeFile(t, filepath.Join(root, "a.cpp"), "int gamma;\n")
	require.NoError(t, os.Remove(filepath.Join(root, "lib", "b.h")))
	stats, err = ix.Run(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Indexed: 1, Removed: 1}, stats)

	got, err = s.Lookup(ctx, "Beta")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = s.Lookup(ctx, "gamma")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestIndexerCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.cpp"), "int a;\n")
	s := openStore(t)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newIndexer(s).Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatches(t *testing.T) {
	ix := newIndexer(nil)
	assert.True(t, ix.Matches("a.cpp"))
	assert.True(t, ix.Matches("deep/dir/x.h"))
	assert.False(t, ix.Matches("build/x.cpp"))
	assert.False(t, ix.Matches("src/build/x.cpp"))
	assert.False(t, ix.Matches("x.txt"))
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	root := t.TempDir()
	s := openStore(t)
	defer s.Close()
	ix := newIndexer(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ix.Watch(ctx, root, 20*time.Millisecond) }()

	lookup := func(name string) int {
		got, err := s.Lookup(context.Background(), name)
		require.NoError(t, err)
		return len(got)
	}
	// give the watcher time to register the root
	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(root, "w.cpp")
	writeFile(t, path, "int watched;\n")
	assert.Eventually(t, func() bool { return lookup("watched") == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return lookup("watched") == 0 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
