package artifact

import (
	"fmt"
)

// Library is a frozen set of artifacts shared by every build. It has no way
// to add entries once constructed, so concurrent readers need no locking.
type Library struct {
	name  string
	store *Store
}

// Freeze turns the contents of s into a library. s must not be used
// afterwards.
func Freeze(name string, s *Store) *Library {
	return &Library{name: name, store: s}
}

// Name identifies the library in diagnostics.
func (l *Library) Name() string { return l.name }

func (l *Library) Get(id ID, ct ContentType) (*Entry, error) {
	e, err := l.store.Get(id, ct)
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", l.name, err)
	}
	return e, nil
}

func (l *Library) Match(f Filter) []*Entry { return l.store.Match(f) }

func (l *Library) Entries() []*Entry { return l.store.Entries() }

func (l *Library) Len() int { return l.store.Len() }

// Project resolves names for one build: the request store first, then the
// libraries in order.
type Project struct {
	Store     *Store
	Libraries []*Library
}

func NewProject(store *Store, libs ...*Library) *Project {
	return &Project{Store: store, Libraries: libs}
}

// Get finds an artifact in the store or one of the libraries.
func (p *Project) Get(id ID, ct ContentType) (*Entry, error) {
	if e, err := p.Store.Get(id, ct); err == nil {
		return e, nil
	}
	for _, lib := range p.Libraries {
		if e, err := lib.Get(id, ct); err == nil {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s.%s: %w", id, ct.Suffix, ErrNotFound)
}

// Match lists matching artifacts of the store followed by those of the
// libraries. Library entries shadowed by the store are skipped.
func (p *Project) Match(f Filter) []*Entry {
	out := p.Store.Match(f)
	for _, lib := range p.Libraries {
		for _, e := range lib.Match(f) {
			if !p.Store.Has(e.ID, e.Type) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Lookup is Get followed by As.
func Lookup[T any](r Root, id ID, ct ContentType) (T, error) {
	e, err := r.Get(id, ct)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](e)
}
