package artifact

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(es []*Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	_, err := s.Put("main", Source, []byte("int x = 1;"))
	require.NoError(t, err)

	e, err := s.Get("main", Source)
	require.NoError(t, err)
	b, ok := e.Bytes()
	require.True(t, ok)
	assert.Equal(t, "int x = 1;", string(b))

	_, err = s.Get("main", TypedIR)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("Main", Source)
	assert.ErrorIs(t, err, ErrNotFound, "ids are case sensitive")

	_, err = s.Put("std//math", Source, nil)
	assert.Error(t, err)
}

func TestStorePutOverwritesInPlace(t *testing.T) {
	s := NewStore()
	for _, id := range []ID{"main", "std/math"} {
		_, err := s.Put(id, Source, []byte("a"))
		require.NoError(t, err)
	}
	_, err := s.Put("main", Source, []byte("b"))
	require.NoError(t, err)

	e, err := s.Get("main", Source)
	require.NoError(t, err)
	b, _ := e.Bytes()
	assert.Equal(t, "b", string(b))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"main.wy", "std/math.wy"}, ids(s.Entries()))
}

func TestStoreCreateCommitsOnClose(t *testing.T) {
	s := NewStore()
	w, err := s.Create("main", Source)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, "print 1;")
	require.NoError(t, err)
	assert.False(t, s.Has("main", Source))

	require.NoError(t, w.Close())
	assert.True(t, s.Has("main", Source))
	assert.ErrorIs(t, w.Close(), ErrClosed)
	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)

	w, err = s.Create("main", Source)
	require.NoError(t, err)
	_, err = fmt.Fprint(w, "print 2;")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	e, err := s.Get("main", Source)
	require.NoError(t, err)
	b, _ := e.Bytes()
	assert.Equal(t, "print 2;", string(b))
}

func TestFilterMatch(t *testing.T) {
	s := NewStore()
	for _, id := range []ID{"main", "std/math", "std/types", "app/util/strings"} {
		_, err := s.Put(id, Source, nil)
		require.NoError(t, err)
	}
	_, err := s.Put("main", TypedIR, nil)
	require.NoError(t, err)

	tests := []struct {
		filter Filter
		want   []string
	}{
		{All(Source), []string{"main.wy", "std/math.wy", "std/types.wy", "app/util/strings.wy"}},
		{Filter{Pattern: "std/*", Type: Source}, []string{"std/math.wy", "std/types.wy"}},
		{Filter{Pattern: "*", Type: Source}, []string{"main.wy"}},
		{Filter{Pattern: "app/**", Type: Source}, []string{"app/util/strings.wy"}},
		{All(TypedIR), []string{"main.wyil"}},
		{All(JavaScript), []string{}},
	}
	for _, tt := range tests {
		got := ids(s.Match(tt.filter))
		assert.ElementsMatch(t, tt.want, got, tt.filter.String())
	}

	assert.NoError(t, All(Source).Validate())
	assert.Error(t, Filter{Pattern: "std/[", Type: Source}.Validate())
}

func TestProjectPrefersStore(t *testing.T) {
	libStore := NewStore()
	_, err := libStore.Put("std/math", Source, []byte("library"))
	require.NoError(t, err)
	_, err = libStore.Put("std/types", Source, []byte("types"))
	require.NoError(t, err)
	lib := Freeze("std", libStore)

	s := NewStore()
	_, err = s.Put("std/math", Source, []byte("override"))
	require.NoError(t, err)
	p := NewProject(s, lib)

	e, err := p.Get("std/math", Source)
	require.NoError(t, err)
	b, _ := e.Bytes()
	assert.Equal(t, "override", string(b))

	e, err = p.Get("std/types", Source)
	require.NoError(t, err)
	b, _ = e.Bytes()
	assert.Equal(t, "types", string(b))

	_, err = p.Get("std/none", Source)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"std/math.wy", "std/types.wy"}, ids(p.Match(Filter{Pattern: "std/*", Type: Source})))
}

func TestAs(t *testing.T) {
	s := NewStore()
	e, err := s.Put("main", Proof, 42)
	require.NoError(t, err)

	n, err := As[int](e)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = As[string](e)
	assert.ErrorContains(t, err, "payload is int")

	got, err := Lookup[int](s, "main", Proof)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	_, err = Lookup[int](s, "other", Proof)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentTypes(t *testing.T) {
	ct, ok := BySuffix(".wyal")
	require.True(t, ok)
	assert.Equal(t, Verification, ct)
	_, ok = BySuffix("exe")
	assert.False(t, ok)
	assert.Len(t, ContentTypes(), 5)
	assert.Equal(t, "math", ID("std/math").Base())
}
