package artifact

import (
	"bytes"
	"fmt"
)

type key struct {
	id ID
	ct ContentType
}

// Store holds the artifacts of one build. It is not safe for concurrent use.
type Store struct {
	entries []*Entry
	index   map[key]int // позиция в entries
}

func NewStore() *Store {
	return &Store{index: make(map[key]int)}
}

// Put creates or overwrites an artifact. An overwritten artifact keeps its
// place in insertion order.
func (s *Store) Put(id ID, ct ContentType, payload any) (*Entry, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid artifact id %q", id)
	}
	k := key{id, ct}
	e := &Entry{ID: id, Type: ct, payload: payload}
	if i, ok := s.index[k]; ok {
		s.entries[i] = e
		return e, nil
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, e)
	return e, nil
}

// Get returns the artifact or ErrNotFound.
func (s *Store) Get(id ID, ct ContentType) (*Entry, error) {
	if i, ok := s.index[key{id, ct}]; ok {
		return s.entries[i], nil
	}
	return nil, fmt.Errorf("%s.%s: %w", id, ct.Suffix, ErrNotFound)
}

// Has reports whether the artifact exists.
func (s *Store) Has(id ID, ct ContentType) bool {
	_, ok := s.index[key{id, ct}]
	return ok
}

// Match lists the artifacts selected by f in insertion order.
func (s *Store) Match(f Filter) []*Entry {
	var out []*Entry
	for _, e := range s.entries {
		if f.Matches(e.ID, e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// Entries lists all artifacts in insertion order.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int { return len(s.entries) }

// Create returns a writer whose content becomes a []byte artifact on Close,
// replacing any artifact already stored under id and ct.
func (s *Store) Create(id ID, ct ContentType) (*Writer, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid artifact id %q", id)
	}
	return &Writer{store: s, id: id, ct: ct}, nil
}

// Writer buffers the content of a new artifact.
type Writer struct {
	store  *Store
	id     ID
	ct     ContentType
	buf    bytes.Buffer
	closed bool
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

// Close commits the buffered content.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	_, err := w.store.Put(w.id, w.ct, w.buf.Bytes())
	return err
}
