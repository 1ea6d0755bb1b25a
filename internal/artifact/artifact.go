// Package artifact is the in-memory store the build pipeline reads from and
// writes to.
//
// An artifact is identified by a slash-delimited path ("main", "std/math")
// together with its content type. Artifacts are immutable once produced.
// Request stores are private to one build; libraries are frozen stores shared
// between builds.
package artifact

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no artifact has the requested id and type.
	ErrNotFound = errors.New("artifact not found")
	// ErrExists is returned when a rule would produce an artifact twice.
	ErrExists = errors.New("artifact already exists")
	// ErrClosed is returned by a Writer after Close.
	ErrClosed = errors.New("artifact writer closed")
)

// ID is a hierarchical, case-sensitive artifact path.
type ID string

// Segments splits the id at '/'.
func (id ID) Segments() []string {
	if id == "" {
		return nil
	}
	return strings.Split(string(id), "/")
}

// Base returns the last segment.
func (id ID) Base() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Valid reports whether id is a non-empty path without empty segments.
func (id ID) Valid() bool {
	if id == "" {
		return false
	}
	for _, seg := range id.Segments() {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// ContentType names the kind of payload an artifact carries.
type ContentType struct {
	Name   string
	Suffix string
}

func (ct ContentType) String() string { return ct.Name }

var (
	Source       = ContentType{Name: "source", Suffix: "wy"}
	TypedIR      = ContentType{Name: "typed-ir", Suffix: "wyil"}
	Verification = ContentType{Name: "verification", Suffix: "wyal"}
	Proof        = ContentType{Name: "proof", Suffix: "proof"}
	JavaScript   = ContentType{Name: "javascript", Suffix: "js"}
)

var registry = []ContentType{Source, TypedIR, Verification, Proof, JavaScript}

// ContentTypes lists the registered content types.
func ContentTypes() []ContentType {
	out := make([]ContentType, len(registry))
	copy(out, registry)
	return out
}

// BySuffix finds a registered content type by its file suffix.
func BySuffix(suffix string) (ContentType, bool) {
	suffix = strings.TrimPrefix(suffix, ".")
	for _, ct := range registry {
		if ct.Suffix == suffix {
			return ct, true
		}
	}
	return ContentType{}, false
}

// Entry is one stored artifact.
type Entry struct {
	ID      ID
	Type    ContentType
	payload any
}

// Payload returns the stored value.
func (e *Entry) Payload() any { return e.payload }

// Bytes returns byte or string payloads as bytes.
func (e *Entry) Bytes() ([]byte, bool) {
	switch p := e.payload.(type) {
	case []byte:
		return p, true
	case string:
		return []byte(p), true
	}
	return nil, false
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s.%s", e.ID, e.Type.Suffix)
}

// As returns the payload of e as a T.
func As[T any](e *Entry) (T, error) {
	var zero T
	if e == nil {
		return zero, ErrNotFound
	}
	v, ok := e.payload.(T)
	if !ok {
		return zero, fmt.Errorf("artifact %s: payload is %T, not %T", e, e.payload, zero)
	}
	return v, nil
}

// Root is a readable collection of artifacts.
type Root interface {
	Get(id ID, ct ContentType) (*Entry, error)
	Match(f Filter) []*Entry
}
