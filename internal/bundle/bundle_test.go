package bundle

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wyweb/internal/artifact"
	"wyweb/internal/ir"
	"wyweb/lib"
)

func TestWriteReadVerifies(t *testing.T) {
	b := New(Module{Path: "std/b", Source: []byte("b")}, Module{Path: "std/a", Source: []byte("a")})
	assert.Equal(t, "std/a", b.Modules[0].Path)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, b))
	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	if diff := cmp.Diff(b, got); diff != "" {
		t.Fatalf("bundle mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, b.Digest(), got.Digest())

	got.Modules[1].Source = []byte("tampered")
	assert.ErrorIs(t, got.Verify(), ErrDigest)
	got.Schema = 7
	assert.ErrorIs(t, got.Verify(), ErrSchema)
}

func TestAddReplaces(t *testing.T) {
	b := New()
	b.Add("m", []byte("1"))
	d := b.Digest()
	b.Add("m", []byte("2"))
	require.Len(t, b.Modules, 1)
	assert.NotEqual(t, d, b.Digest())
	assert.Equal(t, Sum([]byte("2")), b.Modules[0].Digest)
}

func TestFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"std/math.wy":   {Data: []byte("m")},
		"std/x/deep.wy": {Data: []byte("d")},
		"README.md":     {Data: []byte("skip")},
	}
	b, err := FromFS(fsys)
	require.NoError(t, err)
	var paths []string
	for _, m := range b.Modules {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"std/math", "std/x/deep"}, paths)
}

func TestToposortBatches(t *testing.T) {
	idx := BuildIndex([]string{"c", "a", "b", "d", "a"})
	require.Equal(t, []string{"a", "b", "c", "d"}, idx.IDToName)
	g, err := BuildGraph(idx, map[string][]string{
		"c": {"a", "b", "a"},
		"b": {"a"},
	})
	require.NoError(t, err)
	topo := ToposortKahn(g)
	require.False(t, topo.Cyclic)
	assert.Equal(t, [][]ModuleID{{0, 3}, {1}, {2}}, topo.Batches)
	assert.Equal(t, []ModuleID{0, 3, 1, 2}, topo.Order)
}

func TestToposortCycle(t *testing.T) {
	idx := BuildIndex([]string{"a", "b", "c"})
	g, err := BuildGraph(idx, map[string][]string{"a": {"b"}, "b": {"a"}})
	require.NoError(t, err)
	topo := ToposortKahn(g)
	require.True(t, topo.Cyclic)
	assert.Equal(t, []ModuleID{0, 1}, topo.Cycles)
	assert.EqualError(t, idx.CycleError(topo), "import cycle among a, b")
}

func TestBuildGraphRejects(t *testing.T) {
	idx := BuildIndex([]string{"a"})
	_, err := BuildGraph(idx, map[string][]string{"a": {"zz"}})
	assert.EqualError(t, err, `module "a" imports unknown module "zz"`)
	_, err = BuildGraph(idx, map[string][]string{"a": {"a"}})
	assert.EqualError(t, err, `module "a" imports itself`)
}

func TestCompileEmbeddedLibrary(t *testing.T) {
	b, err := FromFS(lib.FS)
	require.NoError(t, err)
	l, err := Compile(context.Background(), b, Options{Jobs: 2})
	require.NoError(t, err)
	assert.Equal(t, LibraryName, l.Name())
	assert.Equal(t, 2*len(b.Modules), l.Len())

	mod, err := artifact.Lookup[*ir.Module](l, "std/math", artifact.TypedIR)
	require.NoError(t, err)
	assert.Equal(t, []string{"std/types"}, mod.Imports)
	src, err := artifact.Lookup[[]byte](l, "std/types", artifact.Source)
	require.NoError(t, err)
	assert.Contains(t, string(src), "type nat is")
}

func TestCompileReportsModule(t *testing.T) {
	b := New()
	b.Add("std/ok", []byte("function one() -> int { return 1; }\n"))
	b.Add("std/bad", []byte("import std::ok;\nint x = ok::one() + true;\n"))
	_, err := Compile(context.Background(), b, Options{})
	var me *ModuleError
	require.True(t, errors.As(err, &me), "%v", err)
	assert.Equal(t, "std/bad", me.Path)
	require.NotNil(t, me.Diagnostic)
	assert.Equal(t, 2, me.Diagnostic.Line.Number)
	assert.Contains(t, err.Error(), "std/bad.wy:2:")
}

func TestCompileCycle(t *testing.T) {
	b := New()
	b.Add("a", []byte("import b;\n"))
	b.Add("b", []byte("import a;\n"))
	_, err := Compile(context.Background(), b, Options{})
	assert.EqualError(t, err, "import cycle among a, b")
}

func TestOpenFallsBack(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "stdlib.bundle")
	b, from, err := Open(missing, lib.FS)
	require.NoError(t, err)
	assert.Equal(t, "embedded", from)

	require.NoError(t, Save(missing, b))
	again, from, err := Open(missing, nil)
	require.NoError(t, err)
	assert.Equal(t, missing, from)
	assert.Equal(t, b.Digest(), again.Digest())

	_, _, err = Open(filepath.Join(dir, "nope"), nil)
	assert.Error(t, err)
}
