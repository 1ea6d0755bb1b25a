// Package bundle packs library modules into one msgpack file and compiles
// them into a frozen artifact.Library.
package bundle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// Schema is the current bundle format version.
const Schema = 1

var (
	ErrSchema = errors.New("unsupported bundle schema")
	ErrDigest = errors.New("module digest mismatch")
)

// Digest is a SHA-256 of module content.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Sum hashes content.
func Sum(content []byte) Digest { return sha256.Sum256(content) }

// Combine builds a module digest: H(content || dep1 || dep2 ...). Deps must
// come in a deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Module is one library source.
type Module struct {
	Path   string `msgpack:"path"`
	Source []byte `msgpack:"source"`
	// Digest is Sum(Source).
	Digest Digest `msgpack:"digest"`
}

// Bundle is the on-disk library.
type Bundle struct {
	Schema  int      `msgpack:"schema"`
	Modules []Module `msgpack:"modules"`
}

// New creates a bundle of modules sorted by path.
func New(mods ...Module) *Bundle {
	b := &Bundle{Schema: Schema}
	for _, m := range mods {
		b.Add(m.Path, m.Source)
	}
	return b
}

// Add inserts or replaces a module and keeps the list sorted.
func (b *Bundle) Add(modPath string, src []byte) {
	m := Module{Path: modPath, Source: src, Digest: Sum(src)}
	i, found := slices.BinarySearchFunc(b.Modules, modPath, func(m Module, p string) int {
		return strings.Compare(m.Path, p)
	})
	if found {
		b.Modules[i] = m
		return
	}
	b.Modules = slices.Insert(b.Modules, i, m)
}

// Module finds a module by path.
func (b *Bundle) Module(modPath string) (*Module, bool) {
	for i := range b.Modules {
		if b.Modules[i].Path == modPath {
			return &b.Modules[i], true
		}
	}
	return nil, false
}

// Digest identifies the whole bundle.
func (b *Bundle) Digest() Digest {
	parts := make([]Digest, len(b.Modules))
	for i, m := range b.Modules {
		parts[i] = Combine(Sum([]byte(m.Path)), m.Digest)
	}
	return Combine(Sum(nil), parts...)
}

// Verify checks the schema and every module digest.
func (b *Bundle) Verify() error {
	if b.Schema != Schema {
		return fmt.Errorf("%w: %d", ErrSchema, b.Schema)
	}
	for _, m := range b.Modules {
		if Sum(m.Source) != m.Digest {
			return fmt.Errorf("%s: %w", m.Path, ErrDigest)
		}
	}
	return nil
}

// Write encodes b.
func Write(w io.Writer, b *Bundle) error {
	return msgpack.NewEncoder(w).Encode(b)
}

// Read decodes and verifies a bundle.
func Read(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := msgpack.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.Verify(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads a bundle file.
func Load(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	b, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return b, nil
}

// Save writes b to filename.
func Save(filename string, b *Bundle) error {
	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// FromFS collects every *.wy file of fsys. The module path is the file path
// without the suffix: std/math.wy → std/math.
func FromFS(fsys fs.FS) (*Bundle, error) {
	names, err := doublestar.Glob(fsys, "**/*.wy")
	if err != nil {
		return nil, err
	}
	b := New()
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		b.Add(strings.TrimSuffix(path.Clean(name), ".wy"), src)
	}
	return b, nil
}
